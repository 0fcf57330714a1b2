package grid

import (
	"context"
	"errors"
	"fmt"
)

// DefaultRowsPerPage is used when a view is created without a page size.
const DefaultRowsPerPage = 10

// Scope selects the rows an export covers.
type Scope string

// Export scopes.
const (
	ScopePage Scope = "page"
	ScopeAll  Scope = "all"
)

// ParseScope parses "page" or "all".
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopePage, ScopeAll:
		return Scope(s), nil
	case "":
		return ScopeAll, nil
	}
	return "", fmt.Errorf("unknown export scope %q (want page or all)", s)
}

// ViewOptions configures a View.
type ViewOptions[R any] struct {
	// RowID returns the stable identifier of a row. Required.
	RowID func(R) string
	// Match reports whether a row satisfies the filter values. Nil matches
	// every row.
	Match func(R, Values) bool

	DefaultFilters Values
	OrderBy        string
	Order          Order
	RowsPerPage    int

	// Store and Key persist column visibility. Both may be zero for a
	// volatile view.
	Store StateStore
	Key   StorageKey
}

// View is the complete UI state of one table instance. A View is owned by a
// single caller and is not safe for concurrent use.
type View[R any] struct {
	reg       *Registry[R]
	columns   *Visibility
	filters   *Filters
	selection *Selection
	rowID     func(R) string
	match     func(R, Values) bool

	orderBy string
	order   Order
	window  Window
}

// Projection is the outcome of running rows through a view.
type Projection[R any] struct {
	// Rows are the rows of the current page.
	Rows []R
	// Filtered are all rows matching the filters, sorted.
	Filtered []R
	Total    int
	Window   Window
	// EmptyRows is the number of filler rows for a fixed-height page.
	EmptyRows int
}

// NewView creates a view over reg. As with NewVisibility, an unreadable
// saved column state is reported with ErrStateLoad alongside a usable view.
func NewView[R any](ctx context.Context, reg *Registry[R], opts ViewOptions[R]) (*View[R], error) {
	if reg == nil {
		return nil, errors.New("registry is required")
	}
	if opts.RowID == nil {
		return nil, fmt.Errorf("table %s: row id accessor is required", reg.Table())
	}
	if opts.OrderBy != "" && !reg.Has(opts.OrderBy) {
		return nil, fmt.Errorf("table %s: %w %q", reg.Table(), ErrUnknownColumn, opts.OrderBy)
	}

	columns, loadErr := NewVisibility(ctx, reg, opts.Store, opts.Key)
	if loadErr != nil && !errors.Is(loadErr, ErrStateLoad) {
		return nil, loadErr
	}

	rpp := opts.RowsPerPage
	if rpp == 0 {
		rpp = DefaultRowsPerPage
	}
	order := opts.Order
	if order == "" {
		order = Asc
	}

	return &View[R]{
		reg:       reg,
		columns:   columns,
		filters:   NewFilters(opts.DefaultFilters),
		selection: NewSelection(),
		rowID:     opts.RowID,
		match:     opts.Match,
		orderBy:   opts.OrderBy,
		order:     order,
		window:    Window{RowsPerPage: rpp},
	}, loadErr
}

// Registry returns the column registry of the view.
func (v *View[R]) Registry() *Registry[R] { return v.reg }

// Columns returns the column visibility controller.
func (v *View[R]) Columns() *Visibility { return v.columns }

// Filters returns the filter state.
func (v *View[R]) Filters() *Filters { return v.filters }

// Selection returns the row selection.
func (v *View[R]) Selection() *Selection { return v.selection }

// RowID returns the identifier of row.
func (v *View[R]) RowID(row R) string { return v.rowID(row) }

// Window returns the current page window.
func (v *View[R]) Window() Window { return v.window }

// Sort returns the current sort column and direction.
func (v *View[R]) Sort() (string, Order) { return v.orderBy, v.order }

// ApplyFilter sets one filter and returns to the first page in a single
// step, since a new filter invalidates the current page position.
func (v *View[R]) ApplyFilter(name string, value any) {
	v.filters.Set(name, value)
	v.window.Page = 0
}

// ResetFilters restores the default filters and returns to the first page.
func (v *View[R]) ResetFilters() {
	v.filters.Reset()
	v.window.Page = 0
}

// SetSort orders rows by a column. An empty orderBy clears the sort.
func (v *View[R]) SetSort(orderBy string, order Order) error {
	if orderBy != "" && !v.reg.Has(orderBy) {
		return fmt.Errorf("table %s: %w %q", v.reg.Table(), ErrUnknownColumn, orderBy)
	}
	if order != Desc {
		order = Asc
	}
	v.orderBy, v.order = orderBy, order
	return nil
}

// ToggleSort implements header clicks: the active column flips direction, a
// new column starts ascending.
func (v *View[R]) ToggleSort(orderBy string) error {
	if orderBy == v.orderBy {
		next := Desc
		if v.order == Desc {
			next = Asc
		}
		return v.SetSort(orderBy, next)
	}
	return v.SetSort(orderBy, Asc)
}

// SetPage moves to a page. Negative pages become 0.
func (v *View[R]) SetPage(page int) {
	v.window.Page = max(0, page)
}

// SetRowsPerPage changes the page size and returns to the first page.
func (v *View[R]) SetRowsPerPage(n int) {
	v.window.RowsPerPage = n
	v.window.Page = 0
}

// Project filters, sorts and paginates rows. The page is clamped when the
// filtered set no longer reaches it.
func (v *View[R]) Project(rows []R) Projection[R] {
	filtered := rows
	if v.match != nil {
		values := v.filters.Values()
		filtered = make([]R, 0, len(rows))
		for _, r := range rows {
			if v.match(r, values) {
				filtered = append(filtered, r)
			}
		}
	}
	filtered = SortRows(filtered, v.reg, v.orderBy, v.order)

	total := len(filtered)
	v.window.Page = ClampPage(v.window.Page, v.window.RowsPerPage, total)

	return Projection[R]{
		Rows:      Paginate(filtered, v.window),
		Filtered:  filtered,
		Total:     total,
		Window:    v.window,
		EmptyRows: EmptyRows(v.window.Page, v.window.RowsPerPage, total),
	}
}

// Query returns the row source query matching the view state.
func (v *View[R]) Query() Query {
	return Query{
		Page:        v.window.Page,
		RowsPerPage: v.window.RowsPerPage,
		OrderBy:     v.orderBy,
		Order:       v.order,
		Filters:     v.filters.Values(),
	}
}

// Reconcile clamps the page after a source reported total matching rows. It
// returns true when the page moved and the rows must be fetched again.
func (v *View[R]) Reconcile(total int) bool {
	page := ClampPage(v.window.Page, v.window.RowsPerPage, total)
	if page == v.window.Page {
		return false
	}
	v.window.Page = page
	return true
}

// Export projects rows through the view and exports the visible columns in
// display order. ScopePage exports the current page only.
func (v *View[R]) Export(rows []R, scope Scope) Export {
	p := v.Project(rows)
	selected := p.Filtered
	if scope == ScopePage {
		selected = p.Rows
	}
	return Project(selected, v.reg, v.columns.VisibleIDs(), v.columns.Order())
}

// Cells renders the visible columns of row in display order.
func (v *View[R]) Cells(row R) []string {
	ids := v.columns.VisibleIDs()
	cells := make([]string, 0, len(ids))
	for _, c := range v.reg.Resolve(ids) {
		cells = append(cells, c.Cell(row))
	}
	return cells
}

// PageIDs returns the row ids of rows.
func (v *View[R]) PageIDs(rows []R) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = v.rowID(r)
	}
	return ids
}

// SelectPage selects exactly the rows given, typically the current page.
func (v *View[R]) SelectPage(rows []R) {
	v.selection.SelectAll(v.PageIDs(rows))
}
