package grid

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_TotalsScenario(t *testing.T) {
	reg := paymentRegistry()
	rows := []payment{{ID: "1", Amount: 10}, {ID: "2", Amount: 20}}

	exp := Project(rows, reg, []string{"amount"}, nil)

	assert.Equal(t, "payments", exp.Table)
	assert.Equal(t, []string{"Amount"}, exp.Labels)
	assert.Equal(t, []Record{
		{{Label: "Amount", Value: 10}},
		{{Label: "Amount", Value: 20}},
	}, exp.Records)
	assert.Equal(t, Record{{Label: "Amount", Value: TotalLabel}}, exp.Totals.Record)
	require.Contains(t, exp.Totals.Sums, "Amount")
	assert.True(t, exp.Totals.Sums["Amount"].Equal(dec("30")))
}

func TestProject_FollowsColumnOrder(t *testing.T) {
	reg := paymentRegistry()
	rows := []payment{{ID: "1", Payee: "acme", Amount: 12.5, Status: "open"}}
	visible := []string{"id", "payee", "amount", "status"}

	tests := []struct {
		name  string
		order []string
		want  []string
	}{
		{name: "registry order", order: nil, want: []string{"ID", "Payee", "Amount", "Status"}},
		{name: "reversed", order: []string{"status", "paid", "amount", "payee", "id"}, want: []string{"Status", "Amount", "Payee", "ID"}},
		{name: "partial order appends the rest", order: []string{"status", "amount"}, want: []string{"Status", "Amount", "ID", "Payee"}},
		{name: "unknown ids ignored", order: []string{"ghost", "payee"}, want: []string{"Payee", "ID", "Amount", "Status"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := Project(rows, reg, visible, tt.order)
			assert.Equal(t, tt.want, exp.Labels)
			assert.Equal(t, tt.want, exp.Records[0].Labels())
			assert.Equal(t, tt.want, exp.Totals.Record.Labels())
		})
	}
}

func TestProject_TotalsSkipNonNumericColumns(t *testing.T) {
	reg := paymentRegistry()
	rows := []payment{
		{ID: "1", Payee: "a", Amount: 10},
		{ID: "2", Payee: "b", Amount: ""},
	}

	exp := Project(rows, reg, []string{"id", "payee", "amount"}, nil)

	assert.Equal(t, Record{
		{Label: "ID", Value: TotalLabel},
		{Label: "Payee"},
		{Label: "Amount"},
	}, exp.Totals.Record)
	assert.Empty(t, exp.Totals.Sums)
}

func TestProject_TotalsMixedNumericTypes(t *testing.T) {
	reg := paymentRegistry()
	rows := []payment{
		{ID: "1", Amount: 10},
		{ID: "2", Amount: 0.25},
		{ID: "3", Amount: dec("4.75")},
		{ID: "4", Amount: uint8(5)},
	}

	exp := Project(rows, reg, []string{"id", "amount"}, nil)

	sum, ok := exp.Totals.Record.Get("Amount")
	require.True(t, ok)
	require.IsType(t, decimal.Decimal{}, sum)
	assert.True(t, sum.(decimal.Decimal).Equal(dec("20")))
	first, _ := exp.Totals.Record.Get("ID")
	assert.Equal(t, TotalLabel, first)
}

func TestProject_NoVisibleColumns(t *testing.T) {
	reg := paymentRegistry()
	exp := Project([]payment{{ID: "1"}}, reg, nil, nil)

	assert.Empty(t, exp.Labels)
	assert.Equal(t, []Record{{}}, exp.Records)
	assert.Equal(t, Record{{Label: "", Value: TotalLabel}}, exp.Totals.Record)
}

func TestProject_NoRows(t *testing.T) {
	reg := paymentRegistry()
	exp := Project(nil, reg, []string{"payee", "amount"}, nil)

	assert.Empty(t, exp.Records)
	assert.Equal(t, Record{{Label: "Payee", Value: TotalLabel}, {Label: "Amount"}}, exp.Totals.Record)
}

func TestExport_Flatten(t *testing.T) {
	reg := paymentRegistry()
	rows := []payment{{ID: "1", Payee: "a", Amount: 1}, {ID: "2", Payee: "b", Amount: 2}}
	exp := Project(rows, reg, []string{"payee", "amount"}, nil)

	header, values := exp.Flatten()
	assert.Equal(t, []string{"Payee", "Amount"}, header)
	require.Len(t, values, 3)
	assert.Equal(t, []any{"a", 1}, values[0])
	assert.Equal(t, TotalLabel, values[2][0])
	assert.Len(t, exp.All(), 3)
	// All must not alias the records slice.
	assert.Len(t, exp.Records, 2)
}

func TestProject_OnlyShowTotalColumnsAreSummed(t *testing.T) {
	reg := MustRegistry("vehicles",
		Column[payment]{ID: "payee", Label: "Vehicle", DefaultVisible: true, Value: func(p payment) any { return p.Payee }},
		Column[payment]{ID: "year", Label: "Year", DefaultVisible: true, Type: TypeNumber, Value: func(p payment) any { return p.Amount }},
	)
	rows := []payment{{Payee: "KA01", Amount: 2019}, {Payee: "KA02", Amount: 2021}}

	exp := Project(rows, reg, []string{"payee", "year"}, nil)

	assert.Equal(t, Record{{Label: "Vehicle", Value: TotalLabel}, {Label: "Year"}}, exp.Totals.Record)
	assert.Empty(t, exp.Totals.Sums)
}

func TestRecord_MarshalJSON(t *testing.T) {
	reg := paymentRegistry()
	rows := []payment{{ID: "1", Amount: 10}, {ID: "2", Amount: 20}}
	exp := Project(rows, reg, []string{"amount"}, nil)

	b, err := json.Marshal(exp.All())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"Amount":10},{"Amount":20},{"Amount":"TOTAL"}]`, string(b))

	// Keys keep the exported column order.
	rec := Record{{Label: "Status", Value: "open"}, {Label: "Amount", Value: dec("1.5")}, {Label: "ID"}}
	b, err = json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"Status":"open","Amount":"1.5","ID":null}`, string(b))

	b, err = json.Marshal(Record{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))
}
