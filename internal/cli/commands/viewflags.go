package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/fleetgrid/internal/fleet"
	"github.com/leapstack-labs/fleetgrid/pkg/grid"
	"github.com/spf13/cobra"
)

// viewFlags are the table view controls shared by list and export.
type viewFlags struct {
	filters     []string
	sort        string
	page        int
	rowsPerPage int
	all         bool
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.filters, "filter", "f", nil, "Filter as name=value (repeatable)")
	cmd.Flags().StringVarP(&f.sort, "sort", "s", "", "Sort column, optionally with direction (amount:desc)")
	cmd.Flags().IntVarP(&f.page, "page", "p", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&f.rowsPerPage, "rows-per-page", 0, "Rows per page (default from config)")
	cmd.Flags().BoolVarP(&f.all, "all", "a", false, "Show every row on a single page")
}

// apply configures view. Filters come first because they return the view
// to the first page.
func (f *viewFlags) apply(view fleet.TableView) error {
	for _, raw := range f.filters {
		name, value, ok := strings.Cut(raw, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return fmt.Errorf("invalid filter %q (want name=value)", raw)
		}
		if err := view.ApplyFilterString(strings.TrimSpace(name), value); err != nil {
			return err
		}
	}

	if f.sort != "" {
		col, dir, _ := strings.Cut(f.sort, ":")
		if err := view.SetSort(col, grid.ParseOrder(dir)); err != nil {
			return err
		}
	}

	switch {
	case f.all:
		view.SetRowsPerPage(0)
	case f.rowsPerPage > 0:
		view.SetRowsPerPage(f.rowsPerPage)
	case f.rowsPerPage < 0:
		return fmt.Errorf("--rows-per-page must be positive, got %d", f.rowsPerPage)
	}

	if f.page < 1 {
		return fmt.Errorf("--page must be at least 1, got %d", f.page)
	}
	view.SetPage(f.page - 1)
	return nil
}

// completeTables completes table ids from the fleet table declarations.
func completeTables(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return slices.Clone(fleet.TableIDs), cobra.ShellCompDirectiveNoFileComp
}

// describeFilters renders active filter values, e.g. "status=active".
func describeFilters(values grid.Values, names []string) string {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+"="+filterText(values[name]))
	}
	return strings.Join(parts, ", ")
}

func filterText(v any) string {
	switch x := v.(type) {
	case []string:
		return strings.Join(x, ",")
	case grid.DateRange:
		return x.String()
	}
	return grid.FormatValue(v)
}
