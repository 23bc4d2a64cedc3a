// Package adapter defines the database contract the wildstat store is
// built on.
//
// Concrete adapters live in pkg/adapters/ subdirectories and register
// themselves with Register from their init functions. Import them with a
// blank identifier to make a database type available:
//
//	import _ "github.com/leapstack-labs/wildstat/pkg/adapters/sqlite"
package adapter

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Config holds the settings for connecting to a database.
type Config struct {
	Type     string            `koanf:"type"`
	Path     string            `koanf:"path"`
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	Database string            `koanf:"name"`
	Username string            `koanf:"user"`
	Password string            `koanf:"password"`
	Options  map[string]string `koanf:"options"`
}

// Adapter is implemented by every supported database.
type Adapter interface {
	// Connect opens and verifies the connection described by cfg.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the connection and releases resources.
	Close() error

	// DB returns the open connection, or nil before Connect.
	DB() *sqlx.DB

	// Dialect returns the goqu dialect name used to build queries for
	// this database.
	Dialect() string

	// Migrate creates or upgrades the wildlife park schema.
	Migrate(ctx context.Context) error
}
