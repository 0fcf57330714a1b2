package fleet

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/leapstack-labs/fleetgrid/internal/source"
	"github.com/leapstack-labs/fleetgrid/pkg/grid"
)

// Spec declares one fleet table over rows of type R.
type Spec[R any] struct {
	ID      string
	Title   string
	Columns *grid.Registry[R]
	RowID   func(R) string
	Filters []FilterDef
	Match   func(R, grid.Values) bool
	OrderBy string
	Order   grid.Order

	// AfterFilter runs after the named filter changed, to normalize filters
	// depending on it.
	AfterFilter func(f *grid.Filters, name string)
}

// DefaultFilters returns the initial filter values of the table.
func (s Spec[R]) DefaultFilters() grid.Values {
	return defaultFilters(s.Filters)
}

// Table is a fleet table with its row type erased, so commands and handlers
// can drive any table by id.
type Table interface {
	ID() string
	Title() string
	Columns() []grid.Info
	Filters() []FilterDef
	DefaultSort() (string, grid.Order)
	// Open creates a view of the table. When the saved column state cannot
	// be read the view is still returned, with default columns, and the error
	// wraps grid.ErrStateLoad.
	Open(ctx context.Context, opts OpenOptions) (TableView, error)
}

// OpenOptions configures a table view.
type OpenOptions struct {
	// Store persists column visibility. Nil keeps it in memory.
	Store grid.StateStore
	// Namespace scopes the persisted state (a CLI profile, a viewer id).
	Namespace   string
	RowsPerPage int
}

// TableView is the UI state of one open table.
type TableView interface {
	Table() Table
	Columns() *grid.Visibility
	Filters() *grid.Filters
	Selection() *grid.Selection
	Window() grid.Window
	Sort() (string, grid.Order)

	ApplyFilter(name string, value any) error
	ApplyFilterString(name, raw string) error
	// ApplyFilterStrings parses every raw value before applying any, so an
	// invalid value leaves the filters unchanged.
	ApplyFilterStrings(raw map[string]string) error
	ResetFilters()
	SetSort(orderBy string, order grid.Order) error
	ToggleSort(orderBy string) error
	SetPage(page int)
	SetRowsPerPage(n int)

	// Load fetches the current page, clamping the page first when the
	// source reports fewer rows than it reaches.
	Load(ctx context.Context) (Page, error)
	// Export fetches the rows of scope and projects the visible columns.
	Export(ctx context.Context, scope grid.Scope) (grid.Export, error)
	// SelectPage selects exactly the rows of the current page.
	SelectPage(ctx context.Context) error
	// SelectAll selects exactly the rows matching the filters, across every
	// page.
	SelectAll(ctx context.Context) error
}

// Row is a rendered table row.
type Row struct {
	ID       string   `json:"id"`
	Cells    []string `json:"cells"`
	Selected bool     `json:"selected"`
}

// Page is the render model of a loaded page.
type Page struct {
	Table           string        `json:"table"`
	Title           string        `json:"title"`
	Headers         []grid.Header `json:"headers"`
	Rows            []Row         `json:"rows"`
	Total           int           `json:"total"`
	Page            int           `json:"page"`
	RowsPerPage     int           `json:"rowsPerPage"`
	EmptyRows       int           `json:"emptyRows"`
	OrderBy         string        `json:"orderBy,omitempty"`
	Order           grid.Order    `json:"order"`
	Filters         grid.Values   `json:"filters"`
	CanResetFilters bool          `json:"canResetFilters"`
	CanResetColumns bool          `json:"canResetColumns"`
	AllSelected     bool          `json:"allSelected"`
	SomeSelected    bool          `json:"someSelected"`
	Selected        int           `json:"selected"`
}

// IDs returns the row ids of the page.
func (p Page) IDs() []string {
	ids := make([]string, len(p.Rows))
	for i, r := range p.Rows {
		ids[i] = r.ID
	}
	return ids
}

// PageCount returns the number of pages holding rows, at least 1.
func (p Page) PageCount() int {
	if p.RowsPerPage <= 0 || p.Total == 0 {
		return 1
	}
	return (p.Total + p.RowsPerPage - 1) / p.RowsPerPage
}

type table[R any] struct {
	spec Spec[R]
	src  grid.Source[R]
}

// Bind attaches a row source to spec.
func Bind[R any](spec Spec[R], src grid.Source[R]) Table {
	return &table[R]{spec: spec, src: src}
}

func (t *table[R]) ID() string           { return t.spec.ID }
func (t *table[R]) Title() string        { return t.spec.Title }
func (t *table[R]) Columns() []grid.Info { return t.spec.Columns.Infos() }
func (t *table[R]) Filters() []FilterDef { return slices.Clone(t.spec.Filters) }

func (t *table[R]) DefaultSort() (string, grid.Order) {
	return t.spec.OrderBy, t.spec.Order
}

func (t *table[R]) Open(ctx context.Context, opts OpenOptions) (TableView, error) {
	var key grid.StorageKey
	if opts.Store != nil {
		k, err := grid.NewStorageKey(opts.Namespace, t.spec.ID)
		if err != nil {
			return nil, err
		}
		key = k
	}

	view, err := grid.NewView(ctx, t.spec.Columns, grid.ViewOptions[R]{
		RowID:          t.spec.RowID,
		Match:          t.spec.Match,
		DefaultFilters: t.spec.DefaultFilters(),
		OrderBy:        t.spec.OrderBy,
		Order:          t.spec.Order,
		RowsPerPage:    opts.RowsPerPage,
		Store:          opts.Store,
		Key:            key,
	})
	if view == nil {
		return nil, fmt.Errorf("failed to open table %s: %w", t.spec.ID, err)
	}
	if err != nil {
		err = fmt.Errorf("table %s: %w", t.spec.ID, err)
	}

	return &tableView[R]{
		table:  t,
		view:   view,
		loader: source.NewLoader(t.src),
	}, err
}

type tableView[R any] struct {
	table  *table[R]
	view   *grid.View[R]
	loader *source.Loader[R]
}

func (v *tableView[R]) Table() Table               { return v.table }
func (v *tableView[R]) Columns() *grid.Visibility  { return v.view.Columns() }
func (v *tableView[R]) Filters() *grid.Filters     { return v.view.Filters() }
func (v *tableView[R]) Selection() *grid.Selection { return v.view.Selection() }
func (v *tableView[R]) Window() grid.Window        { return v.view.Window() }
func (v *tableView[R]) Sort() (string, grid.Order) { return v.view.Sort() }
func (v *tableView[R]) ResetFilters()              { v.view.ResetFilters() }
func (v *tableView[R]) SetPage(page int)           { v.view.SetPage(page) }
func (v *tableView[R]) SetRowsPerPage(n int)       { v.view.SetRowsPerPage(n) }

func (v *tableView[R]) SetSort(orderBy string, order grid.Order) error {
	return v.view.SetSort(orderBy, order)
}

func (v *tableView[R]) ToggleSort(orderBy string) error {
	return v.view.ToggleSort(orderBy)
}

func (v *tableView[R]) ApplyFilter(name string, value any) error {
	if _, ok := findFilter(v.table.spec.Filters, name); !ok {
		return fmt.Errorf("table %s: %w %q", v.table.spec.ID, ErrUnknownFilter, name)
	}
	v.view.ApplyFilter(name, value)
	if v.table.spec.AfterFilter != nil {
		v.table.spec.AfterFilter(v.view.Filters(), name)
	}
	return nil
}

func (v *tableView[R]) ApplyFilterString(name, raw string) error {
	def, ok := findFilter(v.table.spec.Filters, name)
	if !ok {
		return fmt.Errorf("table %s: %w %q", v.table.spec.ID, ErrUnknownFilter, name)
	}
	value, err := def.Parse(raw)
	if err != nil {
		return err
	}
	return v.ApplyFilter(name, value)
}

func (v *tableView[R]) ApplyFilterStrings(raw map[string]string) error {
	names := slices.Sorted(maps.Keys(raw))
	values := make([]any, len(names))
	for i, name := range names {
		def, ok := findFilter(v.table.spec.Filters, name)
		if !ok {
			return fmt.Errorf("table %s: %w %q", v.table.spec.ID, ErrUnknownFilter, name)
		}
		value, err := def.Parse(raw[name])
		if err != nil {
			return err
		}
		values[i] = value
	}
	for i, name := range names {
		if err := v.ApplyFilter(name, values[i]); err != nil {
			return err
		}
	}
	return nil
}

func (v *tableView[R]) fetch(ctx context.Context) (grid.Result[R], error) {
	res, err := v.loader.Load(ctx, v.view.Query())
	if err != nil {
		return res, err
	}
	if v.view.Reconcile(res.Total) {
		return v.loader.Load(ctx, v.view.Query())
	}
	return res, nil
}

func (v *tableView[R]) Load(ctx context.Context) (Page, error) {
	res, err := v.fetch(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("failed to load %s: %w", v.table.spec.ID, err)
	}

	w := v.view.Window()
	orderBy, order := v.view.Sort()
	sel := v.view.Selection()
	page := Page{
		Table:           v.table.spec.ID,
		Title:           v.table.spec.Title,
		Headers:         v.view.Columns().VisibleHeaders(),
		Rows:            make([]Row, 0, len(res.Rows)),
		Total:           res.Total,
		Page:            w.Page,
		RowsPerPage:     w.RowsPerPage,
		EmptyRows:       grid.EmptyRows(w.Page, w.RowsPerPage, res.Total),
		OrderBy:         orderBy,
		Order:           order,
		Filters:         v.view.Filters().Values(),
		CanResetFilters: v.view.Filters().CanReset(),
		CanResetColumns: v.view.Columns().CanReset(),
		Selected:        sel.Len(),
	}
	for _, r := range res.Rows {
		id := v.view.RowID(r)
		page.Rows = append(page.Rows, Row{ID: id, Cells: v.view.Cells(r), Selected: sel.IsSelected(id)})
	}
	ids := page.IDs()
	page.AllSelected = sel.AllSelected(ids)
	page.SomeSelected = sel.SomeSelected(ids)
	return page, nil
}

// fetchFiltered fetches every row matching the filters, in sort order.
func (v *tableView[R]) fetchFiltered(ctx context.Context) (grid.Result[R], error) {
	q := v.view.Query()
	q.Page, q.RowsPerPage = 0, 0
	return v.table.src.Fetch(ctx, q)
}

func (v *tableView[R]) Export(ctx context.Context, scope grid.Scope) (grid.Export, error) {
	var (
		res grid.Result[R]
		err error
	)
	if scope == grid.ScopePage {
		res, err = v.fetch(ctx)
	} else {
		res, err = v.fetchFiltered(ctx)
	}
	if err != nil {
		return grid.Export{}, fmt.Errorf("failed to export %s: %w", v.table.spec.ID, err)
	}
	cols := v.view.Columns()
	return grid.Project(res.Rows, v.table.spec.Columns, cols.VisibleIDs(), cols.Order()), nil
}

func (v *tableView[R]) SelectPage(ctx context.Context) error {
	page, err := v.Load(ctx)
	if err != nil {
		return err
	}
	v.view.Selection().SelectAll(page.IDs())
	return nil
}

func (v *tableView[R]) SelectAll(ctx context.Context) error {
	res, err := v.fetchFiltered(ctx)
	if err != nil {
		return fmt.Errorf("failed to select %s: %w", v.table.spec.ID, err)
	}
	v.view.Selection().SelectAll(v.view.PageIDs(res.Rows))
	return nil
}

// Catalog resolves fleet tables by id.
type Catalog struct {
	tables []Table
	index  map[string]Table
}

// NewCatalog creates a catalog of tables. Ids must be unique.
func NewCatalog(tables ...Table) (*Catalog, error) {
	c := &Catalog{index: make(map[string]Table, len(tables))}
	for _, t := range tables {
		if _, dup := c.index[t.ID()]; dup {
			return nil, fmt.Errorf("duplicate table %q", t.ID())
		}
		c.index[t.ID()] = t
		c.tables = append(c.tables, t)
	}
	return c, nil
}

// ErrUnknownTable is returned for table ids missing from the catalog.
var ErrUnknownTable = errors.New("unknown table")

// Table returns the table registered under id.
func (c *Catalog) Table(id string) (Table, error) {
	t, ok := c.index[id]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %v)", ErrUnknownTable, id, slices.Sorted(maps.Keys(c.index)))
	}
	return t, nil
}

// Tables returns the tables in registration order.
func (c *Catalog) Tables() []Table {
	return slices.Clone(c.tables)
}
