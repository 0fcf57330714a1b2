// Package dataset loads the fleet dataset file served by the file source.
//
// The file is YAML (JSON is accepted as well, being a YAML subset) with one
// list per table:
//
//	customers:
//	  - id: c1
//	    name: Acme Logistics
//	    credit_limit: 250000
//	expenses:
//	  - id: e1
//	    date: 2024-03-01
//	    category: subtrip
//	    type: diesel
//	    amount: 5000
package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/fleetgrid/internal/fleet"
	"gopkg.in/yaml.v3"
)

// Dataset holds the rows of every fleet table.
type Dataset struct {
	Customers      []fleet.Customer      `yaml:"customers"`
	Vehicles       []fleet.Vehicle       `yaml:"vehicles"`
	Drivers        []fleet.Driver        `yaml:"drivers"`
	Trips          []fleet.Trip          `yaml:"trips"`
	Subtrips       []fleet.Subtrip       `yaml:"subtrips"`
	Expenses       []fleet.Expense       `yaml:"expenses"`
	Invoices       []fleet.Invoice       `yaml:"invoices"`
	PurchaseOrders []fleet.PurchaseOrder `yaml:"purchase_orders"`
	Tyres          []fleet.Tyre          `yaml:"tyres"`
	Tenants        []fleet.Tenant        `yaml:"tenants"`
}

// Load reads and validates the dataset at path.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	ds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Parse decodes and validates a dataset. Unknown keys are rejected.
func Parse(data []byte) (*Dataset, error) {
	ds := &Dataset{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(ds); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Validate checks that every row has an id unique within its table.
func (d *Dataset) Validate() error {
	var errs []error
	check := func(table string, ids []string) {
		seen := make(map[string]bool, len(ids))
		for i, id := range ids {
			switch {
			case id == "":
				errs = append(errs, fmt.Errorf("%s[%d]: id is required", table, i))
			case seen[id]:
				errs = append(errs, fmt.Errorf("%s[%d]: duplicate id %q", table, i, id))
			}
			seen[id] = true
		}
	}

	check(fleet.Customers.ID, ids(d.Customers, fleet.Customers.RowID))
	check(fleet.Vehicles.ID, ids(d.Vehicles, fleet.Vehicles.RowID))
	check(fleet.Drivers.ID, ids(d.Drivers, fleet.Drivers.RowID))
	check(fleet.Trips.ID, ids(d.Trips, fleet.Trips.RowID))
	check(fleet.Subtrips.ID, ids(d.Subtrips, fleet.Subtrips.RowID))
	check(fleet.Expenses.ID, ids(d.Expenses, fleet.Expenses.RowID))
	check(fleet.Invoices.ID, ids(d.Invoices, fleet.Invoices.RowID))
	check(fleet.PurchaseOrders.ID, ids(d.PurchaseOrders, fleet.PurchaseOrders.RowID))
	check(fleet.Tyres.ID, ids(d.Tyres, fleet.Tyres.RowID))
	check(fleet.Tenants.ID, ids(d.Tenants, fleet.Tenants.RowID))

	return errors.Join(errs...)
}

// Counts returns the number of rows per table id.
func (d *Dataset) Counts() map[string]int {
	return map[string]int{
		fleet.Customers.ID:      len(d.Customers),
		fleet.Vehicles.ID:       len(d.Vehicles),
		fleet.Drivers.ID:        len(d.Drivers),
		fleet.Trips.ID:          len(d.Trips),
		fleet.Subtrips.ID:       len(d.Subtrips),
		fleet.Expenses.ID:       len(d.Expenses),
		fleet.Invoices.ID:       len(d.Invoices),
		fleet.PurchaseOrders.ID: len(d.PurchaseOrders),
		fleet.Tyres.ID:          len(d.Tyres),
		fleet.Tenants.ID:        len(d.Tenants),
	}
}

func ids[R any](rows []R, rowID func(R) string) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = rowID(r)
	}
	return out
}
