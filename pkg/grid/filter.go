package grid

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
)

// Values is a bag of named filter values.
type Values map[string]any

// String returns the named value as a trimmed string, or "" when unset.
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return strings.TrimSpace(s)
}

// Strings returns the named value as a string slice. A single string is
// returned as a one element slice.
func (v Values) Strings(name string) []string {
	switch x := v[name].(type) {
	case []string:
		return x
	case string:
		if strings.TrimSpace(x) == "" {
			return nil
		}
		return []string{x}
	}
	return nil
}

// DateRange returns the named value as a date range.
func (v Values) DateRange(name string) DateRange {
	switch x := v[name].(type) {
	case DateRange:
		return x
	case *DateRange:
		if x != nil {
			return *x
		}
	}
	return DateRange{}
}

// DateRange is an inclusive date interval. A zero bound is open.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Contains reports whether t falls within the range. The To bound covers the
// whole day when it has no time component.
func (r DateRange) Contains(t time.Time) bool {
	if r.IsZero() {
		return true
	}
	if t.IsZero() {
		return false
	}
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() {
		to := r.To
		if to.Hour() == 0 && to.Minute() == 0 && to.Second() == 0 && to.Nanosecond() == 0 {
			to = to.AddDate(0, 0, 1)
			return t.Before(to)
		}
		return !t.After(to)
	}
	return true
}

// String formats the range as "from..to" with open bounds left empty.
func (r DateRange) String() string {
	if r.IsZero() {
		return ""
	}
	format := func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return FormatValue(t)
	}
	return format(r.From) + ".." + format(r.To)
}

// ParseDateRange parses "from..to" where either bound may be empty. A single
// date selects that day.
func ParseDateRange(s string) (DateRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DateRange{}, nil
	}
	from, to, found := strings.Cut(s, "..")
	if !found {
		to = from
	}
	var r DateRange
	for _, b := range []struct {
		raw string
		dst *time.Time
	}{{from, &r.From}, {to, &r.To}} {
		if strings.TrimSpace(b.raw) == "" {
			continue
		}
		t, ok := AsTime(b.raw)
		if !ok {
			return DateRange{}, fmt.Errorf("invalid date %q in range %q", b.raw, s)
		}
		*b.dst = t
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return DateRange{}, fmt.Errorf("date range %q ends before it starts", s)
	}
	return r, nil
}

// Filters holds the active filter values of a view.
type Filters struct {
	defaults Values
	current  Values
}

// NewFilters creates a filter state seeded with defaults.
func NewFilters(defaults Values) *Filters {
	if defaults == nil {
		defaults = Values{}
	}
	return &Filters{defaults: maps.Clone(defaults), current: maps.Clone(defaults)}
}

// Set merges one value into the filter map.
func (f *Filters) Set(name string, value any) {
	f.current[name] = value
}

// Get returns the current value of a filter.
func (f *Filters) Get(name string) any {
	return f.current[name]
}

// Values returns a copy of the current filter map.
func (f *Filters) Values() Values {
	return maps.Clone(f.current)
}

// Defaults returns a copy of the default filter map.
func (f *Filters) Defaults() Values {
	return maps.Clone(f.defaults)
}

// Reset restores the defaults verbatim.
func (f *Filters) Reset() {
	f.current = maps.Clone(f.defaults)
}

// CanReset reports whether any filter differs from its default. Unset values
// (empty strings, empty slices, nil) are equal to each other.
func (f *Filters) CanReset() bool {
	names := slices.Collect(maps.Keys(f.current))
	for name := range f.defaults {
		if _, ok := f.current[name]; !ok {
			names = append(names, name)
		}
	}
	for _, name := range names {
		cur, def := f.current[name], f.defaults[name]
		if IsUnset(cur) && IsUnset(def) {
			continue
		}
		if IsUnset(cur) != IsUnset(def) || !cmp.Equal(cur, def) {
			return true
		}
	}
	return false
}

// Active returns the names of the filters currently holding a value.
func (f *Filters) Active() []string {
	var names []string
	for name, v := range f.current {
		if !IsUnset(v) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// MatchText reports whether needle occurs in any of haystacks, ignoring
// case. An empty needle matches everything.
func MatchText(needle string, haystacks ...string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return true
	}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

// MatchAny reports whether value is one of selected. An empty selection
// matches everything.
func MatchAny(value string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	return slices.Contains(selected, value)
}
