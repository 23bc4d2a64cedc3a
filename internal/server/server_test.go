package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/wildstat/internal/testutil"
	"github.com/leapstack-labs/wildstat/pkg/core"
)

type fakeSource struct {
	snap  atomic.Pointer[core.Snapshot]
	err   error
	loads atomic.Int32
}

func newFakeSource(snap *core.Snapshot) *fakeSource {
	src := &fakeSource{}
	src.snap.Store(snap)
	return src
}

func (f *fakeSource) Load(context.Context) (*core.Snapshot, error) {
	f.loads.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.snap.Load(), nil
}

func newTestServer(t *testing.T, src Source, watch bool) *Server {
	t.Helper()
	return New(Config{Source: src, Watch: watch, Logger: testutil.NewTestLogger(t)})
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestIndex(t *testing.T) {
	h := newTestServer(t, newFakeSource(testutil.SmallPark(t)), false).Handler()

	rec := get(t, h, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to the Wildlife Conservation API", decode(t, rec)["message"])
}

func TestAnalytics_All(t *testing.T) {
	snap := testutil.SmallPark(t)
	h := newTestServer(t, newFakeSource(snap), false).Handler()

	rec := get(t, h, "/analytics")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, snap.ID(), rec.Header().Get(HeaderSnapshotID))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode(t, rec)
	for _, key := range []string{"basic_stats", "animal_distribution", "guest_analysis", "guider_analysis", "complex_analysis"} {
		assert.Contains(t, body, key)
	}
}

func TestAnalytics_OneKind(t *testing.T) {
	h := newTestServer(t, newFakeSource(testutil.SmallPark(t)), false).Handler()

	tests := []struct {
		path string
		key  string
	}{
		{"/analytics/basic", "total_animals"},
		{"/analytics/animals", "species_distribution"},
		{"/analytics/guests", "visits_by_month"},
		{"/analytics/guiders", "gender_distribution"},
		{"/analytics/complex", "guider_workload"},
		{"/analytics/basic/", "total_animals"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, tt.path)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Contains(t, decode(t, rec), tt.key)
		})
	}
}

func TestAnalytics_UnknownKind(t *testing.T) {
	src := newFakeSource(testutil.SmallPark(t))
	h := newTestServer(t, src, false).Handler()

	rec := get(t, h, "/analytics/weather")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	detail := decode(t, rec)["detail"].(string)
	assert.Contains(t, detail, `"weather"`)
	assert.Contains(t, detail, "basic, animals, guests, guiders, complex")
	assert.Zero(t, src.loads.Load(), "unknown kinds are rejected before loading")
}

func TestAnalytics_MalformedVisitDate(t *testing.T) {
	snap, err := core.NewSnapshot(nil, []core.Guest{{ID: 1, Name: "Ann", VisitDate: "soon"}}, nil)
	require.NoError(t, err)
	h := newTestServer(t, newFakeSource(snap), false).Handler()

	rec := get(t, h, "/analytics/guests")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode(t, rec)["detail"], "visit_date")

	rec = get(t, h, "/analytics")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAnalytics_SourceError(t *testing.T) {
	src := newFakeSource(nil)
	src.err = assert.AnError
	h := newTestServer(t, src, false).Handler()

	rec := get(t, h, "/analytics")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, assert.AnError.Error(), decode(t, rec)["detail"])
}

func TestRecords(t *testing.T) {
	h := newTestServer(t, newFakeSource(testutil.SmallPark(t)), false).Handler()

	t.Run("list animals", func(t *testing.T) {
		rec := get(t, h, "/animals/")
		require.Equal(t, http.StatusOK, rec.Code)
		var animals []core.Animal
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &animals))
		assert.Len(t, animals, 2)
	})

	t.Run("paged", func(t *testing.T) {
		rec := get(t, h, "/animals?skip=1&limit=1")
		require.Equal(t, http.StatusOK, rec.Code)
		var animals []core.Animal
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &animals))
		require.Len(t, animals, 1)
		assert.Equal(t, "Ella", animals[0].Name)
	})

	t.Run("skip past end", func(t *testing.T) {
		rec := get(t, h, "/guests?skip=10")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("bad paging", func(t *testing.T) {
		rec := get(t, h, "/guiders?limit=-1")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("get guider", func(t *testing.T) {
		rec := get(t, h, "/guiders/2")
		require.Equal(t, http.StatusOK, rec.Code)
		var g core.Guider
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
		assert.Equal(t, "Fay", g.Name)
	})

	t.Run("missing animal", func(t *testing.T) {
		rec := get(t, h, "/animals/99")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Animal not found", decode(t, rec)["detail"])
	})

	t.Run("bad id", func(t *testing.T) {
		rec := get(t, h, "/animals/leo")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestWatchMode_HoldsSnapshot(t *testing.T) {
	first := testutil.SmallPark(t)
	src := newFakeSource(first)
	s := newTestServer(t, src, true)
	require.NoError(t, s.Reload(context.Background()))
	h := s.Handler()

	rec := get(t, h, "/analytics/basic")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first.ID(), rec.Header().Get(HeaderSnapshotID))
	assert.Equal(t, int32(1), src.loads.Load(), "requests use the held snapshot")

	second := core.EmptySnapshot()
	src.snap.Store(second)
	updates := s.notifier.subscribe()
	defer s.notifier.unsubscribe(updates)
	require.NoError(t, s.Reload(context.Background()))

	select {
	case id := <-updates:
		assert.Equal(t, second.ID(), id)
	case <-time.After(time.Second):
		t.Fatal("reload was not broadcast")
	}

	rec = get(t, h, "/analytics/basic")
	assert.Equal(t, second.ID(), rec.Header().Get(HeaderSnapshotID))
}

func TestEvents_SendsSnapshotSignal(t *testing.T) {
	snap := testutil.SmallPark(t)
	ts := httptest.NewServer(newTestServer(t, newFakeSource(snap), false).Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	found := false
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if strings.Contains(scanner.Text(), snap.ID()) {
			found = true
			break
		}
	}
	assert.True(t, found, "event stream did not carry the snapshot id")
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, newFakeSource(testutil.SmallPark(t)), false)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

// listeners counts the subscribed channels.
func listeners(n *notifier) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

func TestNotifier(t *testing.T) {
	n := newNotifier()
	a := n.subscribe()
	b := n.subscribe()
	assert.Equal(t, 2, listeners(n))

	n.broadcast("one")
	n.broadcast("two")
	assert.Equal(t, "two", <-a, "only the newest id is pending")
	assert.Equal(t, "two", <-b)

	n.unsubscribe(a)
	n.unsubscribe(b)
	assert.Zero(t, listeners(n))
	n.broadcast("three")

	_, open := <-a
	assert.False(t, open, "unsubscribe closes the channel")
}

func TestPage(t *testing.T) {
	rows := []int{1, 2, 3, 4}
	assert.Equal(t, []int{2, 3}, page(rows, 1, 2))
	assert.Equal(t, []int{4}, page(rows, 3, 100))
	assert.Equal(t, []int{}, page(rows, 4, 1))
	assert.Equal(t, []int{}, page(rows, 0, 0))
}
