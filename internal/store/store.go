// Package store moves wildlife park snapshots between a database and
// memory. Queries are built with goqu for the adapter's dialect and
// scanned with sqlx.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/jmoiron/sqlx"

	"github.com/leapstack-labs/wildstat/pkg/adapter"
	"github.com/leapstack-labs/wildstat/pkg/core"
)

// Table and column names of the park schema.
const (
	tableAnimals      = "animals"
	tableGuests       = "guests"
	tableGuiders      = "guiders"
	tableAnimalGuider = "animal_guider"
	tableGuestGuider  = "guest_guider"

	colID       = "id"
	colGuiderID = "guider_id"
	colAnimalID = "animal_id"
	colGuestID  = "guest_id"
	colOwnerID  = "owner_id"
)

// insertBatch bounds the rows per INSERT so the statement stays under the
// bind parameter limit of every supported database.
const insertBatch = 500

type animalRow struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	Species  string `db:"species"`
	Age      int    `db:"age"`
	IsNative bool   `db:"is_native"`
}

type guestRow struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	VisitDate string `db:"visit_date"`
	IsAdult   bool   `db:"is_adult"`
}

// guiderRow mirrors core.Guider field for field.
type guiderRow struct {
	ID           int64  `db:"id"`
	Name         string `db:"name"`
	Age          int    `db:"age"`
	Gender       string `db:"gender"`
	ServiceHours int    `db:"service_hours"`
}

type linkRow struct {
	OwnerID  int64 `db:"owner_id"`
	GuiderID int64 `db:"guider_id"`
}

// Store reads and writes snapshots through a connected adapter.
type Store struct {
	adapter adapter.Adapter
	logger  *slog.Logger
}

// New creates a store over a connected adapter. A nil logger discards
// output.
func New(adp adapter.Adapter, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{adapter: adp, logger: logger}
}

func (s *Store) db() (*sqlx.DB, error) {
	db := s.adapter.DB()
	if db == nil {
		return nil, adapter.ErrNotConnected
	}
	return db, nil
}

func (s *Store) builder() goqu.DialectWrapper {
	return goqu.Dialect(s.adapter.Dialect())
}

// Load reads the three entity tables and both relation tables into a
// validated snapshot. Rows are ordered by id and each owner's guider ids
// ascend.
func (s *Store) Load(ctx context.Context) (*core.Snapshot, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	b := s.builder()

	var guiders []guiderRow
	if err := s.selectInto(ctx, db, &guiders, b.From(tableGuiders).
		Select(colID, "name", "age", "gender", "service_hours").
		Order(goqu.I(colID).Asc())); err != nil {
		return nil, fmt.Errorf("load guiders: %w", err)
	}

	var animals []animalRow
	if err := s.selectInto(ctx, db, &animals, b.From(tableAnimals).
		Select(colID, "name", "species", "age", "is_native").
		Order(goqu.I(colID).Asc())); err != nil {
		return nil, fmt.Errorf("load animals: %w", err)
	}

	var guests []guestRow
	if err := s.selectInto(ctx, db, &guests, b.From(tableGuests).
		Select(colID, "name", "visit_date", "is_adult").
		Order(goqu.I(colID).Asc())); err != nil {
		return nil, fmt.Errorf("load guests: %w", err)
	}

	animalLinks, err := s.loadLinks(ctx, db, tableAnimalGuider, colAnimalID)
	if err != nil {
		return nil, err
	}
	guestLinks, err := s.loadLinks(ctx, db, tableGuestGuider, colGuestID)
	if err != nil {
		return nil, err
	}

	snap, err := core.NewSnapshot(
		toAnimals(animals, animalLinks),
		toGuests(guests, guestLinks),
		toGuiders(guiders),
	)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	s.logger.Debug("loaded snapshot",
		slog.String("snapshot", snap.ID()),
		slog.Int("animals", len(animals)),
		slog.Int("guests", len(guests)),
		slog.Int("guiders", len(guiders)),
		slog.Duration("duration", time.Since(start)))
	return snap, nil
}

func (s *Store) selectInto(ctx context.Context, db *sqlx.DB, dest any, ds *goqu.SelectDataset) error {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return db.SelectContext(ctx, dest, query, args...)
}

// loadLinks returns the guider ids of each owner in ascending order, with
// repeated pairs collapsed.
func (s *Store) loadLinks(ctx context.Context, db *sqlx.DB, table, ownerCol string) (map[int64][]int64, error) {
	var rows []linkRow
	ds := s.builder().From(table).
		Select(goqu.C(ownerCol).As(colOwnerID), goqu.C(colGuiderID)).
		Order(goqu.C(ownerCol).Asc(), goqu.C(colGuiderID).Asc())
	if err := s.selectInto(ctx, db, &rows, ds); err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}

	links := make(map[int64][]int64)
	for _, r := range rows {
		ids := links[r.OwnerID]
		if n := len(ids); n > 0 && ids[n-1] == r.GuiderID {
			continue
		}
		links[r.OwnerID] = append(ids, r.GuiderID)
	}
	return links, nil
}

func toAnimals(rows []animalRow, links map[int64][]int64) []core.Animal {
	out := make([]core.Animal, len(rows))
	for i, r := range rows {
		out[i] = core.Animal{
			ID:        r.ID,
			Name:      r.Name,
			Species:   r.Species,
			Age:       r.Age,
			IsNative:  r.IsNative,
			GuiderIDs: links[r.ID],
		}
	}
	return out
}

func toGuests(rows []guestRow, links map[int64][]int64) []core.Guest {
	out := make([]core.Guest, len(rows))
	for i, r := range rows {
		out[i] = core.Guest{
			ID:        r.ID,
			Name:      r.Name,
			VisitDate: r.VisitDate,
			IsAdult:   r.IsAdult,
			GuiderIDs: links[r.ID],
		}
	}
	return out
}

func toGuiders(rows []guiderRow) []core.Guider {
	out := make([]core.Guider, len(rows))
	for i, r := range rows {
		out[i] = core.Guider(r)
	}
	return out
}

// Replace deletes every row of the park schema and writes snap in a single
// transaction. Relation entries that point at a guider missing from snap
// are skipped.
func (s *Store) Replace(ctx context.Context, snap *core.Snapshot) (err error) {
	db, err := s.db()
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	b := s.builder()
	for _, table := range []string{tableAnimalGuider, tableGuestGuider, tableAnimals, tableGuests, tableGuiders} {
		query, args, buildErr := b.Delete(table).Prepared(true).ToSQL()
		if buildErr != nil {
			return fmt.Errorf("build delete %s: %w", table, buildErr)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	guiders := snap.Guiders()
	guiderRows := make([]any, len(guiders))
	for i, g := range guiders {
		guiderRows[i] = guiderRow(g)
	}

	animals := snap.Animals()
	animalRows := make([]any, len(animals))
	var animalLinks []any
	skipped := 0
	for i, a := range animals {
		animalRows[i] = animalRow{ID: a.ID, Name: a.Name, Species: a.Species, Age: a.Age, IsNative: a.IsNative}
		for _, gid := range a.GuiderIDs {
			if _, ok := snap.Guider(gid); !ok {
				skipped++
				continue
			}
			animalLinks = append(animalLinks, goqu.Record{colAnimalID: a.ID, colGuiderID: gid})
		}
	}

	guests := snap.Guests()
	guestRows := make([]any, len(guests))
	var guestLinks []any
	for i, g := range guests {
		guestRows[i] = guestRow{ID: g.ID, Name: g.Name, VisitDate: g.VisitDate, IsAdult: g.IsAdult}
		for _, gid := range g.GuiderIDs {
			if _, ok := snap.Guider(gid); !ok {
				skipped++
				continue
			}
			guestLinks = append(guestLinks, goqu.Record{colGuestID: g.ID, colGuiderID: gid})
		}
	}

	inserts := []struct {
		table string
		rows  []any
	}{
		{tableGuiders, guiderRows},
		{tableAnimals, animalRows},
		{tableGuests, guestRows},
		{tableAnimalGuider, animalLinks},
		{tableGuestGuider, guestLinks},
	}
	for _, ins := range inserts {
		if err = s.insert(ctx, tx, ins.table, ins.rows); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if skipped > 0 {
		s.logger.Warn("skipped relation entries with unknown guider", slog.Int("count", skipped))
	}
	s.logger.Debug("replaced park data",
		slog.String("snapshot", snap.ID()),
		slog.Int("animals", len(animals)),
		slog.Int("guests", len(guests)),
		slog.Int("guiders", len(guiders)))
	return nil
}

func (s *Store) insert(ctx context.Context, tx *sqlx.Tx, table string, rows []any) error {
	for start := 0; start < len(rows); start += insertBatch {
		end := min(start+insertBatch, len(rows))
		query, args, err := s.builder().Insert(table).Rows(rows[start:end]...).Prepared(true).ToSQL()
		if err != nil {
			return fmt.Errorf("build insert %s: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}
