// Package config loads wildstat CLI configuration.
//
// Values are layered from defaults, a wildstat.yaml file, WILDSTAT_
// environment variables and explicitly set flags, in increasing order of
// precedence. A named environment block from the file is applied on top of
// the file values before environment variables and flags.
package config

import (
	"time"

	"github.com/leapstack-labs/wildstat/pkg/adapter"
)

// DatabaseConfig is the adapter connection configuration.
type DatabaseConfig = adapter.Config

// Config holds all CLI configuration options.
type Config struct {
	Database     DatabaseConfig       `koanf:"database"`
	SeedsDir     string               `koanf:"seeds_dir"`
	Output       string               `koanf:"output"`
	Verbose      bool                 `koanf:"verbose"`
	Environment  string               `koanf:"environment"`
	Environments map[string]EnvConfig `koanf:"environments"`
	Server       ServerConfig         `koanf:"server"`
}

// EnvConfig holds environment-specific overrides.
type EnvConfig struct {
	Database DatabaseConfig `koanf:"database"`
	SeedsDir string         `koanf:"seeds_dir"`
}

// ServerConfig holds configuration for the HTTP API.
type ServerConfig struct {
	Addr              string        `koanf:"addr"`
	Watch             bool          `koanf:"watch"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
}

// Default configuration values.
const (
	DefaultDatabaseType      = "sqlite"
	DefaultDatabasePath      = "wildlife.db"
	DefaultSeedsDir          = "seeds"
	DefaultEnv               = "dev"
	DefaultOutput            = "auto" // TTY=text, otherwise markdown
	DefaultAddr              = ":8000"
	DefaultReadHeaderTimeout = 10 * time.Second
)

// Defaults returns the configuration used when nothing else is set.
func Defaults() *Config {
	return &Config{
		Database: DatabaseConfig{
			Type: DefaultDatabaseType,
			Path: DefaultDatabasePath,
		},
		SeedsDir:    DefaultSeedsDir,
		Output:      DefaultOutput,
		Environment: DefaultEnv,
		Server: ServerConfig{
			Addr:              DefaultAddr,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
		},
	}
}

// IsFileDatabase reports whether the database lives in a local file.
func (c *Config) IsFileDatabase() bool {
	switch c.Database.Type {
	case "sqlite", "duckdb":
		return c.Database.Path != "" && c.Database.Path != ":memory:"
	}
	return false
}
