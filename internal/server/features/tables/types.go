package tables

import (
	"github.com/leapstack-labs/fleetgrid/internal/fleet"
	"github.com/leapstack-labs/fleetgrid/pkg/grid"
)

// TableInfo describes a table of the catalog.
type TableInfo struct {
	ID      string            `json:"id"`
	Title   string            `json:"title"`
	Columns []grid.Info       `json:"columns"`
	Filters []fleet.FilterDef `json:"filters"`
	OrderBy string            `json:"orderBy,omitempty"`
	Order   grid.Order        `json:"order"`
}

// ColumnsResponse is the column state of a table for the current viewer.
type ColumnsResponse struct {
	Table    string             `json:"table"`
	Columns  []grid.ColumnState `json:"columns"`
	CanReset bool               `json:"canReset"`
}

// SelectionResponse is the selection of a table for the current viewer.
type SelectionResponse struct {
	Table        string   `json:"table"`
	Selected     []string `json:"selected"`
	Count        int      `json:"count"`
	AllSelected  bool     `json:"allSelected"`
	SomeSelected bool     `json:"someSelected"`
}

// FilterSignals carries filter values from the page, keyed by filter name.
// Values use the textual filter form: comma separated for selects, "from..to"
// for date ranges.
type FilterSignals struct {
	Filters map[string]string `json:"filters"`
}

// Problem is the JSON body of an error response.
type Problem struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

// Selection operations.
const (
	selectToggle = "toggle"
	selectPage   = "page"
	selectAll    = "all"
	selectNone   = "none"
)
