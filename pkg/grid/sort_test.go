package grid

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSortRows_AmountScenario(t *testing.T) {
	reg := paymentRegistry()
	rows := []payment{{ID: "1", Amount: 10}, {ID: "2", Amount: 20}, {ID: "3", Amount: 5}}

	assert.Equal(t, []string{"3", "1", "2"}, paymentIDs(SortRows(rows, reg, "amount", Asc)))
	assert.Equal(t, []string{"2", "1", "3"}, paymentIDs(SortRows(rows, reg, "amount", Desc)))
	// Input is not reordered in place.
	assert.Equal(t, []string{"1", "2", "3"}, paymentIDs(rows))
}

func TestSortRows_Stable(t *testing.T) {
	reg := paymentRegistry()
	rows := []payment{
		{ID: "a", Status: "open", Amount: 1},
		{ID: "b", Status: "closed", Amount: 1},
		{ID: "c", Status: "open", Amount: 2},
		{ID: "d", Status: "closed", Amount: 2},
		{ID: "e", Status: "open", Amount: 1},
	}

	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, paymentIDs(SortRows(rows, reg, "status", Asc)))
	assert.Equal(t, []string{"a", "c", "e", "b", "d"}, paymentIDs(SortRows(rows, reg, "status", Desc)))
	assert.Equal(t, []string{"a", "b", "e", "c", "d"}, paymentIDs(SortRows(rows, reg, "amount", Asc)))
	assert.Equal(t, []string{"c", "d", "a", "b", "e"}, paymentIDs(SortRows(rows, reg, "amount", Desc)))
}

func TestSortRows_MissingValuesSortLowest(t *testing.T) {
	reg := paymentRegistry()
	rows := []payment{
		{ID: "num", Amount: 3},
		{ID: "nil", Amount: nil},
		{ID: "str", Amount: "2.5"},
		{ID: "bad", Amount: "n/a"},
		{ID: "dec", Amount: dec("-1")},
		{ID: "json", Amount: json.Number("7")},
	}

	assert.Equal(t, []string{"nil", "bad", "dec", "str", "num", "json"}, paymentIDs(SortRows(rows, reg, "amount", Asc)))
	assert.Equal(t, []string{"json", "num", "str", "dec", "nil", "bad"}, paymentIDs(SortRows(rows, reg, "amount", Desc)))
}

func TestSortRows_ExactDecimals(t *testing.T) {
	tests := []struct {
		name string
		rows []payment
		want []string
	}{
		{
			name: "beyond float precision",
			rows: []payment{
				{ID: "b", Amount: dec("9007199254740993")},
				{ID: "a", Amount: dec("9007199254740992")},
			},
			want: []string{"a", "b"},
		},
		{
			name: "deep fractions",
			rows: []payment{
				{ID: "b", Amount: dec("0.10000000000000000002")},
				{ID: "a", Amount: "0.10000000000000000001"},
			},
			want: []string{"a", "b"},
		},
		{
			name: "equal values keep input order",
			rows: []payment{
				{ID: "x", Amount: dec("1.50")},
				{ID: "y", Amount: "1.5"},
			},
			want: []string{"x", "y"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paymentIDs(SortRows(tt.rows, paymentRegistry(), "amount", Asc)))
		})
	}
}

func TestSortRows_Dates(t *testing.T) {
	reg := paymentRegistry()
	rows := []payment{
		{ID: "mar", Paid: day("2024-03-01")},
		{ID: "zero"},
		{ID: "jan", Paid: day("2024-01-15")},
		{ID: "feb", Paid: day("2024-02-01").Add(time.Hour)},
	}

	assert.Equal(t, []string{"zero", "jan", "feb", "mar"}, paymentIDs(SortRows(rows, reg, "paid", Asc)))
	assert.Equal(t, []string{"mar", "feb", "jan", "zero"}, paymentIDs(SortRows(rows, reg, "paid", Desc)))
}

func TestSortRows_Strings(t *testing.T) {
	reg := paymentRegistry()
	rows := []payment{{ID: "1", Payee: "beta"}, {ID: "2", Payee: ""}, {ID: "3", Payee: "Alpha"}, {ID: "4", Payee: "alpha"}}

	// Byte-wise comparison: upper case sorts before lower case.
	assert.Equal(t, []string{"2", "3", "4", "1"}, paymentIDs(SortRows(rows, reg, "payee", Asc)))
}

func TestSortRows_UnknownColumnKeepsOrder(t *testing.T) {
	reg := paymentRegistry()
	rows := []payment{{ID: "b"}, {ID: "a"}}
	assert.Equal(t, []string{"b", "a"}, paymentIDs(SortRows(rows, reg, "nope", Desc)))
	assert.Equal(t, []string{"b", "a"}, paymentIDs(SortRows(rows, reg, "", Asc)))
}

func TestParseOrder(t *testing.T) {
	assert.Equal(t, Desc, ParseOrder("DESC"))
	assert.Equal(t, Asc, ParseOrder("asc"))
	assert.Equal(t, Asc, ParseOrder("sideways"))
}
