package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ErrNotConnected is returned when an operation needs a connection that has
// not been established.
var ErrNotConnected = errors.New("database connection not established")

// BaseSQLAdapter provides the connection handling shared by the concrete
// adapters. Embed it to get DB, Close and IsConnected.
type BaseSQLAdapter struct {
	Conn   *sqlx.DB
	Cfg    Config
	Logger *slog.Logger
}

// NewBase returns a BaseSQLAdapter with logger, or a discard logger if nil.
func NewBase(logger *slog.Logger) BaseSQLAdapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return BaseSQLAdapter{Logger: logger}
}

// Open opens driverName with dsn, pings it and stores the connection.
func (b *BaseSQLAdapter) Open(ctx context.Context, driverName, dsn string, cfg Config) error {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s connection: %w", driverName, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping %s: %w", driverName, err)
	}

	b.Conn = db
	b.Cfg = cfg
	return nil
}

// DB returns the open connection.
func (b *BaseSQLAdapter) DB() *sqlx.DB { return b.Conn }

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.Conn == nil {
		return nil
	}
	if b.Logger != nil {
		b.Logger.Debug("closing database connection")
	}
	err := b.Conn.Close()
	b.Conn = nil
	return err
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.Conn != nil
}

// ExecScript executes each semicolon-terminated statement of script in
// order. Statements must not contain semicolons inside literals.
func (b *BaseSQLAdapter) ExecScript(ctx context.Context, script string) error {
	if b.Conn == nil {
		return ErrNotConnected
	}
	for _, stmt := range SplitStatements(script) {
		if _, err := b.Conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute SQL: %w", err)
		}
	}
	return nil
}

// SplitStatements splits script on semicolons, dropping blank statements
// and lines that only hold a "--" comment.
func SplitStatements(script string) []string {
	var out []string
	for _, part := range strings.Split(script, ";") {
		var lines []string
		for _, line := range strings.Split(part, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "--") {
				continue
			}
			lines = append(lines, line)
		}
		if stmt := strings.TrimSpace(strings.Join(lines, "\n")); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
