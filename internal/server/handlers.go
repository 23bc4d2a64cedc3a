package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/wildstat/internal/analytics"
	"github.com/leapstack-labs/wildstat/pkg/core"
)

const (
	defaultLimit = 100
	// HeaderSnapshotID names the snapshot a response was computed from.
	HeaderSnapshotID = "X-Snapshot-ID"
)

// errorBody is the envelope for every error response.
type errorBody struct {
	Detail string `json:"detail"`
}

// snapshotSignal is patched into /events subscribers on every swap.
type snapshotSignal struct {
	ID       string    `json:"id"`
	LoadedAt time.Time `json:"loaded_at"`
	Animals  int       `json:"animals"`
	Guests   int       `json:"guests"`
	Guiders  int       `json:"guiders"`
}

func (s *Server) routes(r chi.Router) {
	r.Get("/", s.index)
	r.Get("/analytics", s.allAnalytics)
	r.Get("/analytics/{kind}", s.oneAnalytics)
	r.Get("/animals", s.listAnimals)
	r.Get("/animals/{id}", s.getAnimal)
	r.Get("/guiders", s.listGuiders)
	r.Get("/guiders/{id}", s.getGuider)
	r.Get("/guests", s.listGuests)
	r.Get("/events", s.events)
}

func (s *Server) index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the Wildlife Conservation API"})
}

func (s *Server) allAnalytics(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.load(w, r)
	if !ok {
		return
	}
	combined, err := analytics.New(snap, s.logger).All(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, combined)
}

func (s *Server) oneAnalytics(w http.ResponseWriter, r *http.Request) {
	kind, err := analytics.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	snap, ok := s.load(w, r)
	if !ok {
		return
	}
	report, err := analytics.New(snap, s.logger).Run(r.Context(), kind)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) listAnimals(w http.ResponseWriter, r *http.Request) {
	listRecords(s, w, r, (*core.Snapshot).Animals)
}

func (s *Server) listGuiders(w http.ResponseWriter, r *http.Request) {
	listRecords(s, w, r, (*core.Snapshot).Guiders)
}

func (s *Server) listGuests(w http.ResponseWriter, r *http.Request) {
	listRecords(s, w, r, (*core.Snapshot).Guests)
}

func (s *Server) getAnimal(w http.ResponseWriter, r *http.Request) {
	getRecord(s, w, r, "Animal", (*core.Snapshot).Animal)
}

func (s *Server) getGuider(w http.ResponseWriter, r *http.Request) {
	getRecord(s, w, r, "Guider", (*core.Snapshot).Guider)
}

// events streams a snapshot signal now and after every reload.
func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	updates := s.notifier.subscribe()
	defer s.notifier.unsubscribe(updates)

	snap, ok := s.load(w, r)
	if !ok {
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.MarshalAndPatchSignals(signalFor(snap)); err != nil {
		return
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			current := s.held.Load()
			if current == nil {
				continue
			}
			if err := sse.MarshalAndPatchSignals(signalFor(current)); err != nil {
				s.logger.Debug("event stream closed", "error", err)
				return
			}
		}
	}
}

func signalFor(snap *core.Snapshot) map[string]snapshotSignal {
	animals, guests, guiders := snap.Counts()
	return map[string]snapshotSignal{
		"snapshot": {
			ID:       snap.ID(),
			LoadedAt: snap.LoadedAt(),
			Animals:  animals,
			Guests:   guests,
			Guiders:  guiders,
		},
	}
}

func listRecords[T any](s *Server, w http.ResponseWriter, r *http.Request, all func(*core.Snapshot) []T) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	limit, err := queryInt(r, "limit", defaultLimit)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	snap, ok := s.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, page(all(snap), skip, limit))
}

func getRecord[T any](s *Server, w http.ResponseWriter, r *http.Request, entity string, lookup func(*core.Snapshot, int64) (T, bool)) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid id "+strconv.Quote(chi.URLParam(r, "id")))
		return
	}
	snap, ok := s.load(w, r)
	if !ok {
		return
	}
	rec, found := lookup(snap, id)
	if !found {
		writeError(w, http.StatusNotFound, entity+" not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// page applies skip/limit to rows, always returning a non-nil slice.
func page[T any](rows []T, skip, limit int) []T {
	if skip >= len(rows) {
		return []T{}
	}
	rows = rows[skip:]
	if limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.New(name + " must be a non-negative integer")
	}
	return v, nil
}

// load resolves the snapshot for a request and tags the response with its
// id. On failure the error response has already been written.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (*core.Snapshot, bool) {
	snap, err := s.snapshot(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	w.Header().Set(HeaderSnapshotID, snap.ID())
	return snap, true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var unknown *analytics.UnknownKindError
	if errors.As(err, &unknown) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
