package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/wildstat/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve records and analytics over HTTP",
		Long: `Start the HTTP API.

Endpoints:
  GET /                     welcome message
  GET /analytics            every report combined
  GET /analytics/{kind}     one report: basic, animals, guests, guiders, complex
  GET /animals, /guiders    records (skip, limit)
  GET /animals/{id}         one animal
  GET /guiders/{id}         one guider
  GET /guests               records (skip, limit)
  GET /events               snapshot reload stream

Every request reads the database afresh. With --watch the server holds one
snapshot and reloads it when the database file changes; this needs a
sqlite or duckdb file database.`,
		Example: `  # Serve on the default :8000
  wildstat serve

  # Serve on localhost only and reload on change
  wildstat serve --addr 127.0.0.1:9000 --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	// Read through configuration as server.addr and server.watch.
	cmd.Flags().String("addr", "", "Listen address (default :8000)")
	cmd.Flags().Bool("watch", false, "Hold one snapshot and reload it when the database file changes")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := cc.Cfg
	watchPath := ""
	if cfg.Server.Watch {
		if cfg.IsFileDatabase() {
			watchPath = cfg.Database.Path
		} else {
			cc.Logger.Warn("watch needs a file database, changes will not be picked up", "type", cfg.Database.Type)
		}
	}

	srv := server.New(server.Config{
		Source:            cc.Store,
		Addr:              cfg.Server.Addr,
		Watch:             cfg.Server.Watch,
		WatchPath:         watchPath,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		Logger:            cc.Logger,
	})
	return srv.Serve(cmd.Context())
}
