package tables

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/fleetgrid/internal/export"
	"github.com/leapstack-labs/fleetgrid/internal/fleet"
	"github.com/leapstack-labs/fleetgrid/internal/server/notifier"
	"github.com/leapstack-labs/fleetgrid/pkg/grid"
	"github.com/starfederation/datastar-go/datastar"
)

const (
	sessionName = "fleetgrid"
	viewerKey   = "viewer"
	// filterPrefix marks filter query parameters, e.g. f.status=active.
	filterPrefix = "f."
)

// Handlers provides HTTP handlers for the tables feature.
type Handlers struct {
	catalog      *fleet.Catalog
	views        *Views
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(catalog *fleet.Catalog, views *Views, sessionStore sessions.Store, notify *notifier.Notifier, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		catalog:      catalog,
		views:        views,
		sessionStore: sessionStore,
		notifier:     notify,
		logger:       logger,
	}
}

// viewer returns the viewer id of the session, creating one on first visit.
// It must run before the response body is written.
func (h *Handlers) viewer(w http.ResponseWriter, r *http.Request) (string, error) {
	// A cookie that fails to decode yields a fresh session.
	sess, _ := h.sessionStore.Get(r, sessionName)
	if id, ok := sess.Values[viewerKey].(string); ok && id != "" {
		return id, nil
	}
	id := uuid.NewString()
	sess.Values[viewerKey] = id
	if err := sess.Save(r, w); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return id, nil
}

// withView resolves the viewer and the {table} view and runs fn on it.
// fn's result is written as JSON.
func (h *Handlers) withView(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, v fleet.TableView) (any, error)) {
	viewer, err := h.viewer(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var out any
	err = h.views.With(r.Context(), viewer, chi.URLParam(r, "table"), func(v fleet.TableView) error {
		var err error
		out, err = fn(r.Context(), v)
		return err
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ListTables returns the catalog.
func (h *Handlers) ListTables(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.tableInfos())
}

func (h *Handlers) tableInfos() []TableInfo {
	tables := h.catalog.Tables()
	infos := make([]TableInfo, 0, len(tables))
	for _, t := range tables {
		orderBy, order := t.DefaultSort()
		infos = append(infos, TableInfo{
			ID:      t.ID(),
			Title:   t.Title(),
			Columns: t.Columns(),
			Filters: t.Filters(),
			OrderBy: orderBy,
			Order:   order,
		})
	}
	return infos
}

// Rows applies the query parameters to the viewer's table view and returns
// the current page.
func (h *Handlers) Rows(w http.ResponseWriter, r *http.Request) {
	h.withView(w, r, func(ctx context.Context, v fleet.TableView) (any, error) {
		if err := applyQuery(v, r.URL.Query()); err != nil {
			return nil, err
		}
		return v.Load(ctx)
	})
}

// applyQuery applies filters, sort, page size and page, in that order, so
// that a page parameter survives the page resets of the earlier steps.
func applyQuery(v fleet.TableView, q url.Values) error {
	filters := make(map[string]string)
	for name := range q {
		if filter, ok := strings.CutPrefix(name, filterPrefix); ok {
			filters[filter] = q.Get(name)
		}
	}
	if len(filters) > 0 {
		if err := v.ApplyFilterStrings(filters); err != nil {
			return badRequest(err)
		}
	}

	if q.Has("order_by") {
		if err := v.SetSort(q.Get("order_by"), grid.ParseOrder(q.Get("order"))); err != nil {
			return badRequest(err)
		}
	}

	if q.Has("rows_per_page") {
		n, err := strconv.Atoi(q.Get("rows_per_page"))
		if err != nil || n < 0 {
			return badRequest(fmt.Errorf("invalid rows_per_page %q", q.Get("rows_per_page")))
		}
		v.SetRowsPerPage(n)
	}

	if q.Has("page") {
		n, err := strconv.Atoi(q.Get("page"))
		if err != nil || n < 0 {
			return badRequest(fmt.Errorf("invalid page %q", q.Get("page")))
		}
		v.SetPage(n)
	}
	return nil
}

// Columns returns the column state of the table.
func (h *Handlers) Columns(w http.ResponseWriter, r *http.Request) {
	h.withView(w, r, func(_ context.Context, v fleet.TableView) (any, error) {
		return columnsResponse(v), nil
	})
}

func columnsResponse(v fleet.TableView) ColumnsResponse {
	cols := v.Columns()
	return ColumnsResponse{Table: v.Table().ID(), Columns: cols.Columns(), CanReset: cols.CanReset()}
}

// changeColumns applies change to the column state, then notifies the
// viewer's other pages.
func (h *Handlers) changeColumns(w http.ResponseWriter, r *http.Request, change func(ctx context.Context, cols *grid.Visibility) error) {
	viewer, err := h.viewer(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	table := chi.URLParam(r, "table")
	var out ColumnsResponse
	err = h.views.With(r.Context(), viewer, table, func(v fleet.TableView) error {
		if err := change(r.Context(), v.Columns()); err != nil {
			return err
		}
		out = columnsResponse(v)
		return nil
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.notifier.Broadcast(notifier.Event{Kind: notifier.KindColumns, Table: table, Viewer: viewer})
	writeJSON(w, http.StatusOK, out)
}

// ToggleColumn shows or hides {column}.
func (h *Handlers) ToggleColumn(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "column")
	h.changeColumns(w, r, func(ctx context.Context, cols *grid.Visibility) error {
		if !cols.Has(id) {
			return fmt.Errorf("%w %q", grid.ErrUnknownColumn, id)
		}
		return cols.Toggle(ctx, id)
	})
}

// ToggleAllColumns shows or hides every column that is not locked.
func (h *Handlers) ToggleAllColumns(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("visible")
	visible, err := strconv.ParseBool(raw)
	h.changeColumns(w, r, func(ctx context.Context, cols *grid.Visibility) error {
		if err != nil {
			return badRequest(fmt.Errorf("invalid visible %q (want true or false)", raw))
		}
		return cols.ToggleAll(ctx, visible)
	})
}

// MoveColumn moves {column} to the 0-based position given by "to".
func (h *Handlers) MoveColumn(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "column")
	raw := r.URL.Query().Get("to")
	to, err := strconv.Atoi(raw)
	h.changeColumns(w, r, func(ctx context.Context, cols *grid.Visibility) error {
		if err != nil || to < 0 {
			return badRequest(fmt.Errorf("invalid position %q", raw))
		}
		if !cols.Has(id) {
			return fmt.Errorf("%w %q", grid.ErrUnknownColumn, id)
		}
		return cols.Move(ctx, id, to)
	})
}

// ResetColumns restores the default columns.
func (h *Handlers) ResetColumns(w http.ResponseWriter, r *http.Request) {
	h.changeColumns(w, r, func(ctx context.Context, cols *grid.Visibility) error {
		return cols.Reset(ctx)
	})
}

// ResetFilters restores the default filters and returns the first page.
func (h *Handlers) ResetFilters(w http.ResponseWriter, r *http.Request) {
	h.withView(w, r, func(ctx context.Context, v fleet.TableView) (any, error) {
		v.ResetFilters()
		return v.Load(ctx)
	})
}

// ApplyFilters reads filter signals and patches the table element.
func (h *Handlers) ApplyFilters(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.viewer(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals FilterSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.writeError(w, r, badRequest(fmt.Errorf("failed to read signals: %w", err)))
		return
	}

	var fragment string
	err = h.views.With(r.Context(), viewer, chi.URLParam(r, "table"), func(v fleet.TableView) error {
		if err := v.ApplyFilterStrings(signals.Filters); err != nil {
			return badRequest(err)
		}
		page, err := v.Load(r.Context())
		if err != nil {
			return err
		}
		fragment, err = renderFragment(page)
		return err
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElements(fragment); err != nil {
		h.logger.Debug("failed to patch table", "error", err)
	}
}

// Selection returns the selected rows.
func (h *Handlers) Selection(w http.ResponseWriter, r *http.Request) {
	h.withView(w, r, selectionResponse)
}

// UpdateSelection changes the selection with op=toggle|page|all|none. toggle
// needs the row id.
func (h *Handlers) UpdateSelection(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	op, id := q.Get("op"), q.Get("id")
	h.withView(w, r, func(ctx context.Context, v fleet.TableView) (any, error) {
		sel := v.Selection()
		switch op {
		case selectToggle:
			if id == "" {
				return nil, badRequest(errors.New("toggle needs a row id"))
			}
			sel.Toggle(id)
		case selectPage:
			if err := v.SelectPage(ctx); err != nil {
				return nil, err
			}
		case selectAll:
			if err := v.SelectAll(ctx); err != nil {
				return nil, err
			}
		case selectNone:
			sel.SelectNone()
		default:
			return nil, badRequest(fmt.Errorf("invalid op %q (want toggle, page, all or none)", op))
		}
		return selectionResponse(ctx, v)
	})
}

func selectionResponse(ctx context.Context, v fleet.TableView) (any, error) {
	page, err := v.Load(ctx)
	if err != nil {
		return nil, err
	}
	sel := v.Selection()
	return SelectionResponse{
		Table:        v.Table().ID(),
		Selected:     sel.IDs(),
		Count:        sel.Len(),
		AllSelected:  page.AllSelected,
		SomeSelected: page.SomeSelected,
	}, nil
}

// Export downloads the visible columns of the table.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	table := chi.URLParam(r, "table")

	viewer, err := h.viewer(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var (
		buf    bytes.Buffer
		format export.Format
	)
	err = h.views.With(r.Context(), viewer, table, func(v fleet.TableView) error {
		f, err := export.ParseFormat(q.Get("format"))
		if err != nil {
			return badRequest(err)
		}
		scope := grid.ScopeAll
		if q.Has("scope") {
			if scope, err = grid.ParseScope(q.Get("scope")); err != nil {
				return badRequest(err)
			}
		}
		exp, err := v.Export(r.Context(), scope)
		if err != nil {
			return err
		}
		format = f
		return export.Write(&buf, exp, f, v.Table().Columns())
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", table+"."+format.Extension()))
	_, _ = w.Write(buf.Bytes())
}

// Updates is the long-lived SSE endpoint. It pushes the last event as a
// signal and, when "table" is given, the re-rendered table element.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.viewer(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	table := r.URL.Query().Get("table")
	if table != "" {
		if _, err := h.catalog.Table(table); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	// No initial send: the page is already rendered.
	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-updates:
			if !ok {
				return
			}
			if !ev.Concerns(viewer, table) {
				continue
			}
			if err := sse.MarshalAndPatchSignals(map[string]any{"lastEvent": ev}); err != nil {
				return
			}
			if table == "" {
				continue
			}
			if err := h.sendTable(ctx, sse, viewer, table); err != nil {
				_ = sse.ConsoleError(err)
				// Don't return - keep trying on next update
			}
		}
	}
}

func (h *Handlers) sendTable(ctx context.Context, sse *datastar.ServerSentEventGenerator, viewer, table string) error {
	var fragment string
	err := h.views.With(ctx, viewer, table, func(v fleet.TableView) error {
		page, err := v.Load(ctx)
		if err != nil {
			return err
		}
		fragment, err = renderFragment(page)
		return err
	})
	if err != nil {
		return err
	}
	return sse.PatchElements(fragment)
}

// IndexPage renders the list of tables.
func (h *Handlers) IndexPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := renderLayout(w, layoutData{Title: "Tables", Tables: h.tableInfos(), Updates: "/api/updates"})
	if err != nil {
		h.logger.Error("failed to render index", "error", err)
	}
}

// TablePage renders a table page. Query parameters are applied as in Rows.
func (h *Handlers) TablePage(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.viewer(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	table := chi.URLParam(r, "table")

	var (
		title    string
		fragment string
	)
	err = h.views.With(r.Context(), viewer, table, func(v fleet.TableView) error {
		if err := applyQuery(v, r.URL.Query()); err != nil {
			return err
		}
		page, err := v.Load(r.Context())
		if err != nil {
			return err
		}
		title = page.Title
		fragment, err = renderFragment(page)
		return err
	})
	if err != nil {
		http.Error(w, err.Error(), statusOf(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = renderLayout(w, layoutData{
		Title:    title,
		Current:  table,
		Updates:  "/api/updates?table=" + url.QueryEscape(table),
		Tables:   h.tableInfos(),
		Fragment: template.HTML(fragment), //nolint:gosec // rendered by renderFragment
	})
	if err != nil {
		h.logger.Error("failed to render table page", "table", table, "error", err)
	}
}
