// Package sqlite provides the SQLite database adapter for wildstat. It is
// the default backing store and uses the pure Go modernc driver.
package sqlite

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"

	"github.com/pressly/goose/v3"

	"github.com/leapstack-labs/wildstat/pkg/adapter"

	_ "modernc.org/sqlite" // sqlite driver
)

//go:embed migrations/*.sql
var migrations embed.FS

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// Dialect returns the goqu dialect for SQLite.
func (a *Adapter) Dialect() string {
	return "sqlite3"
}

// Connect opens the database file at cfg.Path, creating it if needed.
// Use ":memory:" for a private in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	a.Logger.Debug("connecting to sqlite", slog.String("path", path))
	if err := a.Open(ctx, "sqlite", buildDSN(path, cfg.Options), cfg); err != nil {
		return err
	}

	// Every connection to :memory: is a separate database.
	if path == ":memory:" {
		a.Conn.SetMaxOpenConns(1)
	}
	return nil
}

// buildDSN enables foreign keys and a busy timeout; options are passed as
// additional pragmas.
func buildDSN(path string, options map[string]string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	if path != ":memory:" {
		q.Add("_pragma", "journal_mode(WAL)")
	}
	for name, value := range options {
		q.Add("_pragma", fmt.Sprintf("%s(%s)", name, value))
	}
	return "file:" + path + "?" + q.Encode()
}

// Migrate applies the embedded goose migrations.
func (a *Adapter) Migrate(ctx context.Context) error {
	if a.Conn == nil {
		return adapter.ErrNotConnected
	}
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	return adapter.GooseUp(ctx, a.Conn.DB, goose.DialectSQLite3, sub, a.Logger)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
