package dataset

import (
	"github.com/leapstack-labs/fleetgrid/internal/fleet"
	"github.com/leapstack-labs/fleetgrid/internal/source"
)

// Memory serves a dataset through in-memory row sources. Replace swaps the
// rows of every table, so open views see a reloaded file on their next load.
type Memory struct {
	customers      *source.Memory[fleet.Customer]
	vehicles       *source.Memory[fleet.Vehicle]
	drivers        *source.Memory[fleet.Driver]
	trips          *source.Memory[fleet.Trip]
	subtrips       *source.Memory[fleet.Subtrip]
	expenses       *source.Memory[fleet.Expense]
	invoices       *source.Memory[fleet.Invoice]
	purchaseOrders *source.Memory[fleet.PurchaseOrder]
	tyres          *source.Memory[fleet.Tyre]
	tenants        *source.Memory[fleet.Tenant]
}

// NewMemory creates sources over ds.
func NewMemory(ds *Dataset) *Memory {
	return &Memory{
		customers:      source.NewMemory(fleet.Customers.Columns, fleet.Customers.Match, ds.Customers),
		vehicles:       source.NewMemory(fleet.Vehicles.Columns, fleet.Vehicles.Match, ds.Vehicles),
		drivers:        source.NewMemory(fleet.Drivers.Columns, fleet.Drivers.Match, ds.Drivers),
		trips:          source.NewMemory(fleet.Trips.Columns, fleet.Trips.Match, ds.Trips),
		subtrips:       source.NewMemory(fleet.Subtrips.Columns, fleet.Subtrips.Match, ds.Subtrips),
		expenses:       source.NewMemory(fleet.Expenses.Columns, fleet.Expenses.Match, ds.Expenses),
		invoices:       source.NewMemory(fleet.Invoices.Columns, fleet.Invoices.Match, ds.Invoices),
		purchaseOrders: source.NewMemory(fleet.PurchaseOrders.Columns, fleet.PurchaseOrders.Match, ds.PurchaseOrders),
		tyres:          source.NewMemory(fleet.Tyres.Columns, fleet.Tyres.Match, ds.Tyres),
		tenants:        source.NewMemory(fleet.Tenants.Columns, fleet.Tenants.Match, ds.Tenants),
	}
}

// Replace swaps in the rows of ds.
func (m *Memory) Replace(ds *Dataset) {
	m.customers.Replace(ds.Customers)
	m.vehicles.Replace(ds.Vehicles)
	m.drivers.Replace(ds.Drivers)
	m.trips.Replace(ds.Trips)
	m.subtrips.Replace(ds.Subtrips)
	m.expenses.Replace(ds.Expenses)
	m.invoices.Replace(ds.Invoices)
	m.purchaseOrders.Replace(ds.PurchaseOrders)
	m.tyres.Replace(ds.Tyres)
	m.tenants.Replace(ds.Tenants)
}

// Sources returns the row sources for fleet.NewFleetCatalog.
func (m *Memory) Sources() fleet.Sources {
	return fleet.Sources{
		Customers:      m.customers,
		Vehicles:       m.vehicles,
		Drivers:        m.drivers,
		Trips:          m.trips,
		Subtrips:       m.subtrips,
		Expenses:       m.expenses,
		Invoices:       m.invoices,
		PurchaseOrders: m.purchaseOrders,
		Tyres:          m.tyres,
		Tenants:        m.tenants,
	}
}
