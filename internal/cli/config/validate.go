package config

import (
	"fmt"

	"github.com/leapstack-labs/wildstat/internal/cli/output"
	"github.com/leapstack-labs/wildstat/pkg/adapter"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Database.Type == "" {
		return fmt.Errorf("database.type is required")
	}
	if !adapter.IsRegistered(c.Database.Type) {
		return &adapter.UnknownAdapterError{
			Type:      c.Database.Type,
			Available: adapter.ListAdapters(),
		}
	}
	if _, err := output.ParseMode(c.Output); err != nil {
		return err
	}
	if c.Server.ReadHeaderTimeout < 0 {
		return fmt.Errorf("server.read_header_timeout must not be negative")
	}
	return nil
}
