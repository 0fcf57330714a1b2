// Package grid provides the configuration-driven data table engine used by
// every fleetgrid list view.
//
// A table is described once by a Registry of typed Column descriptors. Views
// built on top of a registry keep the mutable UI state (column visibility and
// order, filters, sort, page window and row selection) and turn a row
// collection into the rows to render or the records to export.
//
// # Pipeline
//
//   - Filters: named key/value constraints, matched by a caller predicate
//   - Sort: stable comparator driven by the column type
//   - Pagination: page window, filler rows and page clamping
//   - Export: label-keyed records plus a totals record
//
// # Basic Usage
//
//	reg := grid.MustRegistry("expenses",
//	    grid.Column[Expense]{ID: "date", Label: "Date", Type: grid.TypeDate, Value: ...},
//	    grid.Column[Expense]{ID: "amount", Label: "Amount", Type: grid.TypeNumber, ShowTotal: true, Value: ...},
//	)
//	view, err := grid.NewView(ctx, reg, grid.ViewOptions[Expense]{RowID: ..., Match: ...})
//	view.ApplyFilter("category", "fuel")
//	page := view.Project(rows)
//
// The package performs no I/O. Row sources and state stores are interfaces
// implemented elsewhere.
package grid
