package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/fleetgrid/internal/fleet"
	"github.com/leapstack-labs/fleetgrid/pkg/grid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	ds, err := Load(filepath.Join("testdata", "fleet.yaml"))
	require.NoError(t, err)

	require.Len(t, ds.Customers, 2)
	assert.Equal(t, "Acme Logistics", ds.Customers[0].Name)
	assert.True(t, ds.Customers[0].CreditLimit.Equal(decimal.NewFromInt(250000)))
	assert.Equal(t, "125000.5", ds.Customers[1].CreditLimit.String())
	assert.Equal(t, time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), ds.Customers[0].CreatedAt.UTC())

	require.Len(t, ds.Subtrips, 1)
	assert.Equal(t, "35499.25", ds.Subtrips[0].Margin().String())

	counts := ds.Counts()
	assert.Equal(t, 2, counts["expenses"])
	assert.Equal(t, 1, counts["tenants"])
	assert.Len(t, counts, 10)
}

func TestParse_JSON(t *testing.T) {
	ds, err := Parse([]byte(`{"expenses": [{"id": "e1", "date": "2024-03-01T08:30:00Z", "amount": 10.5, "category": "vehicle"}]}`))
	require.NoError(t, err)
	require.Len(t, ds.Expenses, 1)
	assert.Equal(t, "10.5", ds.Expenses[0].Amount.String())
	assert.Equal(t, 2024, ds.Expenses[0].Date.Year())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errMsg string
	}{
		{name: "missing id", input: "trips:\n  - origin: Pune\n", errMsg: "trips[0]: id is required"},
		{name: "duplicate id", input: "tyres:\n  - id: y1\n  - id: y1\n", errMsg: `tyres[1]: duplicate id "y1"`},
		{name: "unknown field", input: "tyres:\n  - id: y1\n    colour: black\n", errMsg: "failed to parse dataset"},
		{name: "unknown table", input: "spaceships: []\n", errMsg: "failed to parse dataset"},
		{name: "bad amount", input: "expenses:\n  - id: e1\n    amount: lots\n", errMsg: "failed to parse dataset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	ds, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, ds.Customers)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read dataset")
}

func TestMemory_ServesAndReplaces(t *testing.T) {
	ctx := context.Background()
	ds, err := Load(filepath.Join("testdata", "fleet.yaml"))
	require.NoError(t, err)

	mem := NewMemory(ds)
	cat, err := fleet.NewFleetCatalog(mem.Sources())
	require.NoError(t, err)

	tbl, err := cat.Table("customers")
	require.NoError(t, err)
	view, err := tbl.Open(ctx, fleet.OpenOptions{})
	require.NoError(t, err)

	page, err := view.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	path := filepath.Join(t.TempDir(), "fleet.yaml")
	require.NoError(t, os.WriteFile(path, []byte("customers:\n  - id: c9\n    name: Zed Movers\n"), 0o644))
	next, err := Load(path)
	require.NoError(t, err)
	mem.Replace(next)

	page, err = view.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c9"}, page.IDs())

	exp, err := view.Export(ctx, grid.ScopeAll)
	require.NoError(t, err)
	assert.Len(t, exp.Records, 1)
}
