package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/wildstat/internal/testutil"
	"github.com/leapstack-labs/wildstat/pkg/adapter"
	"github.com/leapstack-labs/wildstat/pkg/adapters/sqlite"
	"github.com/leapstack-labs/wildstat/pkg/core"
)

// mockAdapter serves a sqlmock connection through the adapter contract.
type mockAdapter struct {
	adapter.BaseSQLAdapter
}

func (m *mockAdapter) Connect(context.Context, adapter.Config) error { return nil }
func (m *mockAdapter) Dialect() string { return "sqlite3" }
func (m *mockAdapter) Migrate(context.Context) error { return nil }

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	adp := &mockAdapter{BaseSQLAdapter: adapter.NewBase(nil)}
	adp.Conn = sqlx.NewDb(db, "sqlmock")
	return New(adp, testutil.NewTestLogger(t)), mock
}

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	adp := sqlite.New(testutil.NewTestLogger(t))
	require.NoError(t, adp.Connect(ctx, adapter.Config{Path: filepath.Join(t.TempDir(), "wildlife.db")}))
	t.Cleanup(func() { _ = adp.Close() })
	require.NoError(t, adp.Migrate(ctx))
	return New(adp, testutil.NewTestLogger(t))
}

func sampleSnapshot(t *testing.T) *core.Snapshot {
	t.Helper()
	return testutil.SmallPark(t)
}

func TestStore_ReplaceLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	want := sampleSnapshot(t)

	require.NoError(t, s.Replace(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Animals(), got.Animals())
	assert.Equal(t, want.Guests(), got.Guests())
	assert.Equal(t, want.Guiders(), got.Guiders())
	assert.NotEqual(t, want.ID(), got.ID(), "every load is a new snapshot")
}

func TestStore_ReplaceOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	require.NoError(t, s.Replace(ctx, sampleSnapshot(t)))
	require.NoError(t, s.Replace(ctx, core.EmptySnapshot()))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	animals, guests, guiders := got.Counts()
	assert.Zero(t, animals)
	assert.Zero(t, guests)
	assert.Zero(t, guiders)
}

func TestStore_ReplaceSkipsDanglingLinks(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	snap, err := core.NewSnapshot(
		[]core.Animal{{ID: 1, Name: "Leo", Species: "Lion", GuiderIDs: []int64{1, 99}}},
		nil,
		[]core.Guider{{ID: 1, Name: "Mo", Gender: "M"}},
	)
	require.NoError(t, err)
	require.NoError(t, s.Replace(ctx, snap))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, got.Animals()[0].GuiderIDs)
}

func TestStore_LoadOrdersGuiderIDs(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	db := s.adapter.DB()

	db.MustExecContext(ctx, "INSERT INTO guiders (id, name, age, service_hours, gender) VALUES (3, 'c', 30, 1, 'M'), (1, 'a', 30, 1, 'F')")
	db.MustExecContext(ctx, "INSERT INTO guests (id, name, visit_date, is_adult) VALUES (7, 'g', '2024-03-01', 1)")
	db.MustExecContext(ctx, "INSERT INTO guest_guider (guest_id, guider_id) VALUES (7, 3), (7, 1), (7, 3)")

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, got.Guests()[0].GuiderIDs, "ascending and without repeats")
	assert.Equal(t, int64(1), got.Guiders()[0].ID, "rows ordered by id")
}

func TestStore_LoadQueryError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT .* FROM .guiders.").WillReturnError(assert.AnError)

	_, err := s.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "load guiders")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LoadRelationError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("FROM .guiders.").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "age", "gender", "service_hours"}).AddRow(1, "Mo", 30, "M", 100))
	mock.ExpectQuery("FROM .animals.").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "species", "age", "is_native"}))
	mock.ExpectQuery("FROM .guests.").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "visit_date", "is_adult"}))
	mock.ExpectQuery("FROM .animal_guider.").WillReturnError(assert.AnError)

	_, err := s.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load animal_guider")
}

func TestStore_ReplaceRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM .animal_guider.").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := s.Replace(context.Background(), sampleSnapshot(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clear animal_guider")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_NotConnected(t *testing.T) {
	s := New(&mockAdapter{BaseSQLAdapter: adapter.NewBase(nil)}, nil)

	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, adapter.ErrNotConnected)
	assert.ErrorIs(t, s.Replace(context.Background(), core.EmptySnapshot()), adapter.ErrNotConnected)
}
