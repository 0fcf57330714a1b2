// Package server provides the web UI and JSON API over the fleet tables.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/fleetgrid/internal/dataset"
	"github.com/leapstack-labs/fleetgrid/internal/fleet"
	tablesFeature "github.com/leapstack-labs/fleetgrid/internal/server/features/tables"
	"github.com/leapstack-labs/fleetgrid/internal/server/notifier"
	"github.com/leapstack-labs/fleetgrid/internal/server/router"
	"github.com/leapstack-labs/fleetgrid/pkg/grid"
	"golang.org/x/sync/errgroup"
)

// reloadDebounce coalesces the burst of events an editor save produces.
const reloadDebounce = 100 * time.Millisecond

// sessionMaxAge bounds both the viewer cookie and the life of an idle view:
// a view unused for longer can no longer be reached by its viewer.
const sessionMaxAge = 30 * 24 * time.Hour

// Server is the web server.
type Server struct {
	catalog      *fleet.Catalog
	memory       *dataset.Memory
	dataPath     string
	sessionStore *sessions.CookieStore
	views        *tablesFeature.Views
	port         int
	watch        bool
	logger       *slog.Logger
	notifier     *notifier.Notifier

	// reloadMu serializes dataset reloads.
	reloadMu sync.Mutex
}

// Config holds configuration for the server.
type Config struct {
	Catalog *fleet.Catalog
	// Store persists the column state of every viewer.
	Store grid.StateStore
	// Memory and DataPath are set when rows come from a dataset file; they
	// enable Reload and the file watcher.
	Memory        *dataset.Memory
	DataPath      string
	Port          int
	Watch         bool
	SessionSecret string
	RowsPerPage   int
	Logger        *slog.Logger
}

// NewServer creates a new server instance. An empty session secret is
// replaced by a random one, so sessions end with the process.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	secret := cfg.SessionSecret
	if secret == "" {
		logger.Warn("no session secret configured, viewer sessions will not survive a restart")
		secret = uuid.NewString() + uuid.NewString()
	}
	sessionStore := sessions.NewCookieStore([]byte(secret))
	sessionStore.MaxAge(int(sessionMaxAge / time.Second))
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	views := tablesFeature.NewViews(cfg.Catalog, tablesFeature.ViewsOptions{
		Store:       cfg.Store,
		RowsPerPage: cfg.RowsPerPage,
		IdleTTL:     sessionMaxAge,
		Logger:      logger,
	})

	return &Server{
		catalog:      cfg.Catalog,
		memory:       cfg.Memory,
		dataPath:     cfg.DataPath,
		sessionStore: sessionStore,
		views:        views,
		port:         cfg.Port,
		watch:        cfg.Watch,
		logger:       logger,
		notifier:     notifier.New(),
	}
}

// Handler returns the router with middleware and every route.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.views, s.sessionStore, s.notifier, s.logger); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		if s.memory == nil {
			s.logger.Warn("watch ignored: rows do not come from a dataset file")
		} else {
			eg.Go(func() error {
				return s.watchFiles(egctx)
			})
		}
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Reload re-reads the dataset file and swaps the rows of every table. Open
// views keep their filters, sort and columns and see the new rows on their
// next load. A file that fails to load leaves the current rows in place.
func (s *Server) Reload() error {
	if s.memory == nil {
		return errors.New("reload needs a dataset file")
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	ds, err := dataset.Load(s.dataPath)
	if err != nil {
		return fmt.Errorf("failed to reload dataset: %w", err)
	}
	s.memory.Replace(ds)
	s.logger.Info("dataset reloaded", "path", s.dataPath, "counts", ds.Counts())

	s.notifier.Broadcast(notifier.Event{Kind: notifier.KindReload})
	return nil
}

// watchFiles reloads the dataset when its file changes. The directory is
// watched rather than the file, so editors that replace the file on save
// are followed.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	target := filepath.Clean(s.dataPath)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		s.logger.Error("failed to watch dataset directory", "error", err)
		// Don't fail - continue without watching
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
			if filepath.Clean(event.Name) != target {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(reloadDebounce, func() {
				s.logger.Debug("dataset changed, reloading", "file", event.Name)
				if err := s.Reload(); err != nil {
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
