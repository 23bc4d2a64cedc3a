// Package server exposes park records and analytics reports over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/wildstat/pkg/core"
)

// Source loads the current state of the park.
type Source interface {
	Load(ctx context.Context) (*core.Snapshot, error)
}

// Config holds configuration for the HTTP server.
type Config struct {
	Source Source
	Addr   string
	// Watch holds one snapshot and reloads it when WatchPath changes.
	// Without it every request loads a fresh snapshot.
	Watch             bool
	WatchPath         string
	ReadHeaderTimeout time.Duration
	Logger            *slog.Logger
}

// Server serves the analytics API.
type Server struct {
	source            Source
	addr              string
	watch             bool
	watchPath         string
	readHeaderTimeout time.Duration
	logger            *slog.Logger
	notifier          *notifier
	held              atomic.Pointer[core.Snapshot]
}

// New creates a server instance.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	addr := cfg.Addr
	if addr == "" {
		addr = ":8000"
	}
	timeout := cfg.ReadHeaderTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Server{
		source:            cfg.Source,
		addr:              addr,
		watch:             cfg.Watch,
		watchPath:         cfg.WatchPath,
		readHeaderTimeout: timeout,
		logger:            logger,
		notifier:          newNotifier(),
	}
}

// Handler returns the routed API without starting a listener.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.StripSlashes,
		middleware.Recoverer,
		middleware.Compress(5, "application/json"),
	)
	s.routes(r)
	return r
}

// Serve starts the server and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if s.watch {
		if err := s.Reload(ctx); err != nil {
			return err
		}
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting API server", "addr", ln.Addr().String(), "watch", s.watch)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: s.readHeaderTimeout,
	}

	if s.watch && s.watchPath != "" {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down API server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Reload loads a snapshot from the source and makes it the held one.
func (s *Server) Reload(ctx context.Context) error {
	snap, err := s.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload snapshot: %w", err)
	}
	s.held.Store(snap)
	s.logger.Debug("snapshot reloaded", "snapshot", snap.ID())
	s.notifier.broadcast(snap.ID())
	return nil
}

// snapshot returns the held snapshot in watch mode, otherwise a fresh load.
func (s *Server) snapshot(ctx context.Context) (*core.Snapshot, error) {
	if s.watch {
		if snap := s.held.Load(); snap != nil {
			return snap, nil
		}
	}
	return s.source.Load(ctx)
}

// watchFiles reloads the snapshot when the database file or its journal
// changes.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(s.watchPath)
	base := filepath.Base(s.watchPath)
	if err := watcher.Add(dir); err != nil {
		s.logger.Error("failed to watch database directory", "dir", dir, "error", err)
		<-ctx.Done()
		return nil
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !strings.HasPrefix(filepath.Base(event.Name), base) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("database changed, reloading", "file", event.Name)
				if err := s.Reload(ctx); err != nil {
					s.logger.Error("reload failed", "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}
