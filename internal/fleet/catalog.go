package fleet

import (
	"fmt"

	"github.com/leapstack-labs/fleetgrid/internal/source"
	"github.com/leapstack-labs/fleetgrid/pkg/grid"
)

// Sources holds one row source per fleet table.
type Sources struct {
	Customers      grid.Source[Customer]
	Vehicles       grid.Source[Vehicle]
	Drivers        grid.Source[Driver]
	Trips          grid.Source[Trip]
	Subtrips       grid.Source[Subtrip]
	Expenses       grid.Source[Expense]
	Invoices       grid.Source[Invoice]
	PurchaseOrders grid.Source[PurchaseOrder]
	Tyres          grid.Source[Tyre]
	Tenants        grid.Source[Tenant]
}

// TableIDs lists the fleet table ids in catalog order.
var TableIDs = []string{
	Customers.ID, Vehicles.ID, Drivers.ID, Trips.ID, Subtrips.ID,
	Expenses.ID, Invoices.ID, PurchaseOrders.ID, Tyres.ID, Tenants.ID,
}

// NewFleetCatalog binds every fleet table to its source.
func NewFleetCatalog(src Sources) (*Catalog, error) {
	tables := []struct {
		id    string
		bound bool
		table func() Table
	}{
		{Customers.ID, src.Customers != nil, func() Table { return Bind(Customers, src.Customers) }},
		{Vehicles.ID, src.Vehicles != nil, func() Table { return Bind(Vehicles, src.Vehicles) }},
		{Drivers.ID, src.Drivers != nil, func() Table { return Bind(Drivers, src.Drivers) }},
		{Trips.ID, src.Trips != nil, func() Table { return Bind(Trips, src.Trips) }},
		{Subtrips.ID, src.Subtrips != nil, func() Table { return Bind(Subtrips, src.Subtrips) }},
		{Expenses.ID, src.Expenses != nil, func() Table { return Bind(Expenses, src.Expenses) }},
		{Invoices.ID, src.Invoices != nil, func() Table { return Bind(Invoices, src.Invoices) }},
		{PurchaseOrders.ID, src.PurchaseOrders != nil, func() Table { return Bind(PurchaseOrders, src.PurchaseOrders) }},
		{Tyres.ID, src.Tyres != nil, func() Table { return Bind(Tyres, src.Tyres) }},
		{Tenants.ID, src.Tenants != nil, func() Table { return Bind(Tenants, src.Tenants) }},
	}

	bound := make([]Table, 0, len(tables))
	for _, t := range tables {
		if !t.bound {
			return nil, fmt.Errorf("no row source for table %s", t.id)
		}
		bound = append(bound, t.table())
	}
	return NewCatalog(bound...)
}

// HTTPSources creates REST sources for every table below baseURL.
func HTTPSources(baseURL string, opts ...source.HTTPOption) (Sources, error) {
	var (
		src  Sources
		errs []error
	)
	src.Customers = httpSource[Customer](baseURL, Customers.ID, opts, &errs)
	src.Vehicles = httpSource[Vehicle](baseURL, Vehicles.ID, opts, &errs)
	src.Drivers = httpSource[Driver](baseURL, Drivers.ID, opts, &errs)
	src.Trips = httpSource[Trip](baseURL, Trips.ID, opts, &errs)
	src.Subtrips = httpSource[Subtrip](baseURL, Subtrips.ID, opts, &errs)
	src.Expenses = httpSource[Expense](baseURL, Expenses.ID, opts, &errs)
	src.Invoices = httpSource[Invoice](baseURL, Invoices.ID, opts, &errs)
	src.PurchaseOrders = httpSource[PurchaseOrder](baseURL, PurchaseOrders.ID, opts, &errs)
	src.Tyres = httpSource[Tyre](baseURL, Tyres.ID, opts, &errs)
	src.Tenants = httpSource[Tenant](baseURL, Tenants.ID, opts, &errs)
	if len(errs) > 0 {
		return Sources{}, errs[0]
	}
	return src, nil
}

func httpSource[R any](baseURL, table string, opts []source.HTTPOption, errs *[]error) grid.Source[R] {
	s, err := source.NewHTTP[R](baseURL, table, opts...)
	if err != nil {
		*errs = append(*errs, err)
		return nil
	}
	return s
}
