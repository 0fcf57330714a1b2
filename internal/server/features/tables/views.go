package tables

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/leapstack-labs/fleetgrid/internal/fleet"
	"github.com/leapstack-labs/fleetgrid/pkg/grid"
	"golang.org/x/sync/singleflight"
)

// viewerPrefix turns a viewer id into a storage-key namespace.
const viewerPrefix = "v-"

type viewKey struct {
	viewer string
	table  string
}

func (k viewKey) String() string { return k.viewer + "/" + k.table }

// openView is a table view shared by the requests of one viewer. mu
// serializes them, since a view is single-threaded UI state. lastUsed is
// guarded by Views.mu.
type openView struct {
	mu       sync.Mutex
	view     fleet.TableView
	lastUsed time.Time
}

// ViewsOptions configures a Views registry.
type ViewsOptions struct {
	// Store persists the column state of every view under the viewer
	// namespace. Nil keeps it in memory.
	Store       grid.StateStore
	RowsPerPage int
	// IdleTTL evicts views not used for longer. Zero keeps every view until
	// the process exits.
	IdleTTL time.Duration
	Logger  *slog.Logger
}

// Views keeps one open table view per viewer and table. Views idle for
// longer than the configured TTL are dropped on the next open; their column
// state survives in the store, filters and selection do not.
type Views struct {
	catalog     *fleet.Catalog
	store       grid.StateStore
	rowsPerPage int
	idleTTL     time.Duration
	logger      *slog.Logger
	now         func() time.Time

	mu    sync.Mutex
	views map[viewKey]*openView
	group singleflight.Group
}

// NewViews creates an empty registry.
func NewViews(catalog *fleet.Catalog, opts ViewsOptions) *Views {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Views{
		catalog:     catalog,
		store:       opts.Store,
		rowsPerPage: opts.RowsPerPage,
		idleTTL:     opts.IdleTTL,
		logger:      logger,
		now:         time.Now,
		views:       make(map[viewKey]*openView),
	}
}

// Len returns the number of open views.
func (vs *Views) Len() int {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return len(vs.views)
}

// EvictIdle drops the views unused for longer than the idle TTL and returns
// how many were dropped.
func (vs *Views) EvictIdle() int {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.evictIdleLocked(vs.now())
}

func (vs *Views) evictIdleLocked(now time.Time) int {
	if vs.idleTTL <= 0 {
		return 0
	}
	n := 0
	for key, ov := range vs.views {
		if now.Sub(ov.lastUsed) > vs.idleTTL {
			delete(vs.views, key)
			n++
		}
	}
	return n
}

// With runs fn on the view of table for viewer, opening it on first use.
// Calls for the same view never overlap.
func (vs *Views) With(ctx context.Context, viewer, table string, fn func(fleet.TableView) error) error {
	ov, err := vs.get(ctx, viewKey{viewer: viewer, table: table})
	if err != nil {
		return err
	}
	ov.mu.Lock()
	defer ov.mu.Unlock()
	return fn(ov.view)
}

func (vs *Views) get(ctx context.Context, key viewKey) (*openView, error) {
	vs.mu.Lock()
	ov, ok := vs.views[key]
	if ok {
		ov.lastUsed = vs.now()
	}
	vs.mu.Unlock()
	if ok {
		return ov, nil
	}

	v, err, _ := vs.group.Do(key.String(), func() (any, error) {
		vs.mu.Lock()
		if ov, ok := vs.views[key]; ok {
			ov.lastUsed = vs.now()
			vs.mu.Unlock()
			return ov, nil
		}
		vs.mu.Unlock()

		t, err := vs.catalog.Table(key.table)
		if err != nil {
			return nil, err
		}
		view, err := t.Open(ctx, fleet.OpenOptions{
			Store:       vs.store,
			Namespace:   viewerPrefix + key.viewer,
			RowsPerPage: vs.rowsPerPage,
		})
		if errors.Is(err, grid.ErrStateLoad) {
			vs.logger.Warn("saved columns unavailable, using defaults", "viewer", key.viewer, "table", key.table, "error", err)
		} else if err != nil {
			return nil, err
		}

		ov := &openView{view: view}
		vs.mu.Lock()
		now := vs.now()
		if n := vs.evictIdleLocked(now); n > 0 {
			vs.logger.Debug("evicted idle views", "count", n)
		}
		ov.lastUsed = now
		vs.views[key] = ov
		vs.mu.Unlock()
		return ov, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*openView), nil
}
