// Package duckdb provides a DuckDB database adapter for wildstat.
package duckdb

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/wildstat/pkg/adapter"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

//go:embed schema.sql
var schemaSQL string

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// Dialect returns the goqu dialect used for DuckDB. DuckDB accepts the
// PostgreSQL flavour of placeholders and quoting.
func (a *Adapter) Dialect() string {
	return "postgres"
}

// Connect establishes a connection to DuckDB.
// Use ":memory:" as the path for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == ":memory:" {
		path = ""
	}

	a.Logger.Debug("connecting to duckdb", slog.String("path", cfg.Path))
	if err := a.Open(ctx, "duckdb", path, cfg); err != nil {
		return err
	}
	if path == "" {
		a.Conn.SetMaxOpenConns(1)
	}
	return nil
}

// Migrate creates the schema. The DDL is idempotent, so there is no
// version table.
func (a *Adapter) Migrate(ctx context.Context) error {
	if err := a.ExecScript(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create duckdb schema: %w", err)
	}
	a.Logger.Debug("schema is up to date")
	return nil
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
