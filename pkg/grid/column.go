package grid

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
)

// Type is the sorting and export hint of a column.
type Type string

// Column types.
const (
	TypeString Type = "string"
	TypeNumber Type = "number"
	TypeDate   Type = "date"
)

// Align is the presentation alignment of a column.
type Align string

// Column alignments.
const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Column describes one table column over rows of type R.
type Column[R any] struct {
	ID             string
	Label          string
	DefaultVisible bool
	// Disabled columns are always rendered and cannot be hidden.
	Disabled bool
	// Pinned columns keep their position in the column order.
	Pinned bool
	Align  Align
	Type   Type
	// ShowTotal marks a numeric column as summable in export totals.
	ShowTotal bool

	// Value extracts the raw cell value. It must be pure.
	Value func(R) any
	// Render overrides the textual presentation of the cell.
	Render func(R) string
}

// Info is the serializable metadata of a column.
type Info struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	DefaultVisible bool   `json:"defaultVisible"`
	Disabled       bool   `json:"disabled"`
	Pinned         bool   `json:"pinned,omitempty"`
	Align          Align  `json:"align"`
	Type           Type   `json:"type"`
	ShowTotal      bool   `json:"showTotal,omitempty"`
}

// Cell returns the display text of the column for row.
func (c Column[R]) Cell(row R) string {
	if c.Render != nil {
		return c.Render(row)
	}
	return FormatValue(c.Value(row))
}

func (c Column[R]) info() Info {
	return Info{
		ID:             c.ID,
		Label:          c.Label,
		DefaultVisible: c.DefaultVisible,
		Disabled:       c.Disabled,
		Pinned:         c.Pinned,
		Align:          c.Align,
		Type:           c.Type,
		ShowTotal:      c.ShowTotal,
	}
}

var identPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]*$`)

// Registry is the static, ordered column set of one table.
type Registry[R any] struct {
	table    string
	columns  []Column[R]
	index    map[string]int
	visible  map[string]bool
	disabled map[string]bool
}

// NewRegistry validates cols and builds a registry for table.
// Configuration mistakes are reported here rather than at render time.
func NewRegistry[R any](table string, cols ...Column[R]) (*Registry[R], error) {
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("%w: table id %q", ErrInvalidKey, table)
	}

	r := &Registry[R]{
		table:    table,
		columns:  make([]Column[R], 0, len(cols)),
		index:    make(map[string]int, len(cols)),
		visible:  make(map[string]bool, len(cols)),
		disabled: make(map[string]bool, len(cols)),
	}

	for i, c := range cols {
		if c.ID == "" {
			return nil, fmt.Errorf("%w: column %d of %s has no id", ErrInvalidColumn, i, table)
		}
		if _, dup := r.index[c.ID]; dup {
			return nil, fmt.Errorf("%w: %s.%s", ErrDuplicateColumn, table, c.ID)
		}
		if c.Value == nil {
			return nil, fmt.Errorf("%w: %s.%s", ErrMissingValue, table, c.ID)
		}
		if c.Label == "" {
			c.Label = c.ID
		}
		switch c.Type {
		case "":
			c.Type = TypeString
		case TypeString, TypeNumber, TypeDate:
		default:
			return nil, fmt.Errorf("%w: %s.%s has unknown type %q", ErrInvalidColumn, table, c.ID, c.Type)
		}
		switch c.Align {
		case "":
			c.Align = AlignLeft
			if c.Type == TypeNumber {
				c.Align = AlignRight
			}
		case AlignLeft, AlignCenter, AlignRight:
		default:
			return nil, fmt.Errorf("%w: %s.%s has unknown alignment %q", ErrInvalidColumn, table, c.ID, c.Align)
		}

		r.index[c.ID] = len(r.columns)
		r.columns = append(r.columns, c)
		r.visible[c.ID] = c.DefaultVisible
		r.disabled[c.ID] = c.Disabled
	}

	return r, nil
}

// MustRegistry is like NewRegistry but panics on error.
// It is intended for package-level table declarations.
func MustRegistry[R any](table string, cols ...Column[R]) *Registry[R] {
	r, err := NewRegistry(table, cols...)
	if err != nil {
		panic(err)
	}
	return r
}

// Table returns the table id.
func (r *Registry[R]) Table() string { return r.table }

// Len returns the number of columns.
func (r *Registry[R]) Len() int { return len(r.columns) }

// Column looks up a column by id.
func (r *Registry[R]) Column(id string) (Column[R], bool) {
	i, ok := r.index[id]
	if !ok {
		return Column[R]{}, false
	}
	return r.columns[i], true
}

// Has reports whether id is a column of the registry.
func (r *Registry[R]) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// Columns returns the columns in declaration order.
func (r *Registry[R]) Columns() []Column[R] {
	return slices.Clone(r.columns)
}

// Order returns the column ids in declaration order.
func (r *Registry[R]) Order() []string {
	ids := make([]string, len(r.columns))
	for i, c := range r.columns {
		ids[i] = c.ID
	}
	return ids
}

// DefaultVisibleColumns maps each column id to its default visibility.
func (r *Registry[R]) DefaultVisibleColumns() map[string]bool {
	return maps.Clone(r.visible)
}

// DisabledColumns maps each column id to whether it can be hidden.
func (r *Registry[R]) DisabledColumns() map[string]bool {
	return maps.Clone(r.disabled)
}

// Infos returns the serializable metadata of every column.
func (r *Registry[R]) Infos() []Info {
	out := make([]Info, len(r.columns))
	for i, c := range r.columns {
		out[i] = c.info()
	}
	return out
}

// Resolve returns the columns named by ids, in the order given.
// Unknown ids are skipped.
func (r *Registry[R]) Resolve(ids []string) []Column[R] {
	out := make([]Column[R], 0, len(ids))
	for _, id := range ids {
		if c, ok := r.Column(id); ok {
			out = append(out, c)
		}
	}
	return out
}
