package grid

import (
	"cmp"
	"slices"
	"strings"
)

// Order is a sort direction.
type Order string

// Sort directions.
const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ParseOrder parses "asc" or "desc". Anything else is ascending.
func ParseOrder(s string) Order {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// Comparator returns the primary comparison of two rows for a column.
// Missing values (nil, unparseable numbers or dates, zero times) sort lowest
// in ascending order. Desc negates the result.
func Comparator[R any](col Column[R], order Order) func(a, b R) int {
	compare := compareStrings
	switch col.Type {
	case TypeNumber:
		compare = compareNumbers
	case TypeDate:
		compare = compareDates
	}
	return func(a, b R) int {
		c := compare(col.Value(a), col.Value(b))
		if order == Desc {
			return -c
		}
		return c
	}
}

// SortRows returns rows ordered by the column orderBy. Rows with equal keys
// keep their input order in both directions. An unknown column returns a
// copy of rows unchanged.
func SortRows[R any](rows []R, reg *Registry[R], orderBy string, order Order) []R {
	out := slices.Clone(rows)
	col, ok := reg.Column(orderBy)
	if !ok || len(out) < 2 {
		return out
	}

	type indexed struct {
		row R
		idx int
	}
	decorated := make([]indexed, len(rows))
	for i, r := range rows {
		decorated[i] = indexed{row: r, idx: i}
	}

	compare := Comparator(col, order)
	slices.SortFunc(decorated, func(a, b indexed) int {
		if c := compare(a.row, b.row); c != 0 {
			return c
		}
		return cmp.Compare(a.idx, b.idx)
	})

	for i, d := range decorated {
		out[i] = d.row
	}
	return out
}

func compareMissing(aok, bok bool) (int, bool) {
	switch {
	case !aok && !bok:
		return 0, true
	case !aok:
		return -1, true
	case !bok:
		return 1, true
	}
	return 0, false
}

func compareNumbers(a, b any) int {
	x, aok := sortNumber(a)
	y, bok := sortNumber(b)
	if c, done := compareMissing(aok, bok); done {
		return c
	}
	return x.Cmp(y)
}

func compareDates(a, b any) int {
	x, aok := AsTime(a)
	y, bok := AsTime(b)
	if c, done := compareMissing(aok, bok); done {
		return c
	}
	return x.Compare(y)
}

func compareStrings(a, b any) int {
	aok, bok := a != nil && !IsUnset(a), b != nil && !IsUnset(b)
	if c, done := compareMissing(aok, bok); done {
		return c
	}
	return strings.Compare(FormatValue(a), FormatValue(b))
}
