package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/wildstat/internal/cli/config"
	"github.com/leapstack-labs/wildstat/internal/cli/output"
	"github.com/leapstack-labs/wildstat/internal/store"
	"github.com/leapstack-labs/wildstat/pkg/adapter"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Adapter  adapter.Adapter
	Store    *store.Store
}

// NewCommandContext connects to the configured database, applies pending
// migrations and builds the store. The returned cleanup function must be
// called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cc := NewCommandContextWithoutStore(cmd)

	adp, err := openAdapter(cmd.Context(), cc.Cfg, cc.Logger)
	if err != nil {
		return nil, nil, err
	}
	if err := adp.Migrate(cmd.Context()); err != nil {
		_ = adp.Close()
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	cc.Adapter = adp
	cc.Store = store.New(adp, cc.Logger)
	cleanup := func() {
		if err := adp.Close(); err != nil {
			cc.Logger.Warn("failed to close database", "error", err)
		}
	}
	return cc, cleanup, nil
}

// NewCommandContextWithoutStore creates a CommandContext without a database
// connection.
func NewCommandContextWithoutStore(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the loaded configuration, or the defaults when the
// command runs outside the root command.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Defaults()
}

// openAdapter creates and connects the configured adapter. File databases
// get their parent directory created first.
func openAdapter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (adapter.Adapter, error) {
	adp, err := adapter.NewAdapter(cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	if cfg.IsFileDatabase() {
		if dir := filepath.Dir(cfg.Database.Path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	if err := adp.Connect(ctx, cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Database.Type, err)
	}
	return adp, nil
}
