package fleet

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/fleetgrid/pkg/grid"
)

// ErrUnknownFilter is returned for filter names a table does not declare.
var ErrUnknownFilter = errors.New("unknown filter")

// FilterKind selects how a filter value is parsed and matched.
type FilterKind string

// Filter kinds.
const (
	FilterText      FilterKind = "text"
	FilterSelect    FilterKind = "select"
	FilterDateRange FilterKind = "daterange"
)

// FilterDef declares one filter of a table.
type FilterDef struct {
	Name  string     `json:"name"`
	Label string     `json:"label"`
	Kind  FilterKind `json:"kind"`
	// Options lists the valid values of a select filter. Empty accepts any.
	Options []string `json:"options,omitempty"`
	// Default is the initial value. Nil means unset.
	Default any `json:"default,omitempty"`
}

// Parse converts the textual form of a value (a flag, a query parameter)
// into the value stored in the filter state. Select values are comma
// separated; date ranges use "from..to".
func (d FilterDef) Parse(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch d.Kind {
	case FilterSelect:
		var out []string
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if len(d.Options) > 0 && !slices.Contains(d.Options, part) {
				return nil, fmt.Errorf("invalid %s %q (want one of %s)", d.Name, part, strings.Join(d.Options, ", "))
			}
			if !slices.Contains(out, part) {
				out = append(out, part)
			}
		}
		if len(out) == 0 {
			return nil, nil
		}
		return out, nil
	case FilterDateRange:
		r, err := grid.ParseDateRange(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.Name, err)
		}
		if r.IsZero() {
			return nil, nil
		}
		return r, nil
	}
	return raw, nil
}

func defaultFilters(defs []FilterDef) grid.Values {
	values := make(grid.Values, len(defs))
	for _, d := range defs {
		values[d.Name] = d.Default
		if d.Default == nil && d.Kind == FilterText {
			values[d.Name] = ""
		}
	}
	return values
}

func findFilter(defs []FilterDef, name string) (FilterDef, bool) {
	i := slices.IndexFunc(defs, func(d FilterDef) bool { return d.Name == name })
	if i < 0 {
		return FilterDef{}, false
	}
	return defs[i], true
}

// Expense categories.
const (
	ExpenseCategoryVehicle = "vehicle"
	ExpenseCategorySubtrip = "subtrip"
)

var expenseTypes = map[string][]string{
	ExpenseCategoryVehicle: {"emi", "insurance", "permit", "repair", "service", "tyre"},
	ExpenseCategorySubtrip: {"adblue", "diesel", "driver_advance", "loading", "police", "toll", "unloading"},
}

// ExpenseCategories returns the expense categories.
func ExpenseCategories() []string {
	return []string{ExpenseCategorySubtrip, ExpenseCategoryVehicle}
}

// ExpenseTypes returns the expense types valid for the given categories,
// sorted. No category returns every type; unknown categories contribute none.
func ExpenseTypes(categories ...string) []string {
	if len(categories) == 0 {
		categories = ExpenseCategories()
	}
	var out []string
	for _, c := range categories {
		out = append(out, expenseTypes[c]...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// narrowExpenseTypes drops selected expense types that are no longer valid
// for the selected categories.
func narrowExpenseTypes(f *grid.Filters, name string) {
	if name != "category" {
		return
	}
	values := f.Values()
	selected := values.Strings("type")
	if len(selected) == 0 {
		return
	}
	allowed := ExpenseTypes(values.Strings("category")...)
	kept := slices.DeleteFunc(slices.Clone(selected), func(t string) bool {
		return !slices.Contains(allowed, t)
	})
	if len(kept) == len(selected) {
		return
	}
	if len(kept) == 0 {
		f.Set("type", nil)
		return
	}
	f.Set("type", kept)
}
