package fleet

import (
	"strconv"

	"github.com/leapstack-labs/fleetgrid/pkg/grid"
)

func statusFilter(options ...string) FilterDef {
	return FilterDef{Name: "status", Label: "Status", Kind: FilterSelect, Options: options}
}

func searchFilter() FilterDef {
	return FilterDef{Name: "q", Label: "Search", Kind: FilterText}
}

func dateFilter(name, label string) FilterDef {
	return FilterDef{Name: name, Label: label, Kind: FilterDateRange}
}

// Customers lists consignors.
var Customers = Spec[Customer]{
	ID:    "customers",
	Title: "Customers",
	Columns: grid.MustRegistry("customers",
		grid.Column[Customer]{ID: "name", Label: "Customer", DefaultVisible: true, Disabled: true, Pinned: true, Value: func(c Customer) any { return c.Name }},
		grid.Column[Customer]{ID: "gstin", Label: "GSTIN", DefaultVisible: true, Value: func(c Customer) any { return c.GSTIN }},
		grid.Column[Customer]{ID: "city", Label: "City", DefaultVisible: true, Value: func(c Customer) any { return c.City }},
		grid.Column[Customer]{ID: "state", Label: "State", DefaultVisible: false, Value: func(c Customer) any { return c.State }},
		grid.Column[Customer]{ID: "phone", Label: "Phone", DefaultVisible: true, Value: func(c Customer) any { return c.Phone }},
		grid.Column[Customer]{ID: "email", Label: "Email", DefaultVisible: false, Value: func(c Customer) any { return c.Email }},
		grid.Column[Customer]{ID: "credit_limit", Label: "Credit Limit", DefaultVisible: true, Type: grid.TypeNumber, Value: func(c Customer) any { return c.CreditLimit }},
		grid.Column[Customer]{ID: "status", Label: "Status", DefaultVisible: true, Align: grid.AlignCenter, Value: func(c Customer) any { return c.Status }},
		grid.Column[Customer]{ID: "created_at", Label: "Created", DefaultVisible: false, Type: grid.TypeDate, Value: func(c Customer) any { return c.CreatedAt }},
	),
	RowID:   func(c Customer) string { return c.ID },
	Filters: []FilterDef{searchFilter(), statusFilter("active", "inactive"), {Name: "state", Label: "State", Kind: FilterSelect}},
	Match: func(c Customer, v grid.Values) bool {
		return grid.MatchText(v.String("q"), c.Name, c.GSTIN, c.City, c.Phone, c.Email) &&
			grid.MatchAny(c.Status, v.Strings("status")) &&
			grid.MatchAny(c.State, v.Strings("state"))
	},
	OrderBy: "name",
	Order:   grid.Asc,
}

// Vehicles lists the fleet.
var Vehicles = Spec[Vehicle]{
	ID:    "vehicles",
	Title: "Vehicles",
	Columns: grid.MustRegistry("vehicles",
		grid.Column[Vehicle]{ID: "reg_no", Label: "Vehicle No", DefaultVisible: true, Disabled: true, Pinned: true, Value: func(x Vehicle) any { return x.RegNo }},
		grid.Column[Vehicle]{ID: "type", Label: "Type", DefaultVisible: true, Value: func(x Vehicle) any { return x.Type }},
		grid.Column[Vehicle]{ID: "make", Label: "Make", DefaultVisible: true, Value: func(x Vehicle) any { return x.Make }},
		grid.Column[Vehicle]{ID: "model", Label: "Model", DefaultVisible: true, Value: func(x Vehicle) any { return x.Model }},
		grid.Column[Vehicle]{ID: "year", Label: "Year", DefaultVisible: false, Type: grid.TypeNumber, Value: func(x Vehicle) any { return x.Year }, Render: func(x Vehicle) string {
			if x.Year == 0 {
				return grid.Placeholder
			}
			return strconv.Itoa(x.Year)
		}},
		grid.Column[Vehicle]{ID: "ownership", Label: "Ownership", DefaultVisible: true, Value: func(x Vehicle) any { return x.Ownership }},
		grid.Column[Vehicle]{ID: "driver_id", Label: "Driver", DefaultVisible: false, Value: func(x Vehicle) any { return x.DriverID }},
		grid.Column[Vehicle]{ID: "status", Label: "Status", DefaultVisible: true, Align: grid.AlignCenter, Value: func(x Vehicle) any { return x.Status }},
		grid.Column[Vehicle]{ID: "fitness_expiry", Label: "Fitness Expiry", DefaultVisible: true, Type: grid.TypeDate, Value: func(x Vehicle) any { return x.FitnessExpiry }},
	),
	RowID: func(x Vehicle) string { return x.ID },
	Filters: []FilterDef{
		searchFilter(),
		{Name: "type", Label: "Type", Kind: FilterSelect, Options: []string{"trailer", "truck"}},
		{Name: "ownership", Label: "Ownership", Kind: FilterSelect, Options: []string{"market", "own"}},
		statusFilter("active", "idle", "maintenance", "sold"),
	},
	Match: func(x Vehicle, v grid.Values) bool {
		return grid.MatchText(v.String("q"), x.RegNo, x.Make, x.Model) &&
			grid.MatchAny(x.Type, v.Strings("type")) &&
			grid.MatchAny(x.Ownership, v.Strings("ownership")) &&
			grid.MatchAny(x.Status, v.Strings("status"))
	},
	OrderBy: "reg_no",
	Order:   grid.Asc,
}

// Drivers lists drivers.
var Drivers = Spec[Driver]{
	ID:    "drivers",
	Title: "Drivers",
	Columns: grid.MustRegistry("drivers",
		grid.Column[Driver]{ID: "name", Label: "Driver", DefaultVisible: true, Disabled: true, Pinned: true, Value: func(d Driver) any { return d.Name }},
		grid.Column[Driver]{ID: "phone", Label: "Phone", DefaultVisible: true, Value: func(d Driver) any { return d.Phone }},
		grid.Column[Driver]{ID: "license_no", Label: "License No", DefaultVisible: true, Value: func(d Driver) any { return d.LicenseNo }},
		grid.Column[Driver]{ID: "license_expiry", Label: "License Expiry", DefaultVisible: true, Type: grid.TypeDate, Value: func(d Driver) any { return d.LicenseExpiry }},
		grid.Column[Driver]{ID: "salary", Label: "Salary", DefaultVisible: false, Type: grid.TypeNumber, ShowTotal: true, Value: func(d Driver) any { return d.Salary }},
		grid.Column[Driver]{ID: "status", Label: "Status", DefaultVisible: true, Align: grid.AlignCenter, Value: func(d Driver) any { return d.Status }},
		grid.Column[Driver]{ID: "joined_at", Label: "Joined", DefaultVisible: false, Type: grid.TypeDate, Value: func(d Driver) any { return d.JoinedAt }},
	),
	RowID:   func(d Driver) string { return d.ID },
	Filters: []FilterDef{searchFilter(), statusFilter("active", "inactive", "on_leave"), dateFilter("license_expiry", "License Expiry")},
	Match: func(d Driver, v grid.Values) bool {
		return grid.MatchText(v.String("q"), d.Name, d.Phone, d.LicenseNo) &&
			grid.MatchAny(d.Status, v.Strings("status")) &&
			v.DateRange("license_expiry").Contains(d.LicenseExpiry)
	},
	OrderBy: "name",
	Order:   grid.Asc,
}

// Trips lists vehicle journeys.
var Trips = Spec[Trip]{
	ID:    "trips",
	Title: "Trips",
	Columns: grid.MustRegistry("trips",
		grid.Column[Trip]{ID: "id", Label: "Trip", DefaultVisible: true, Disabled: true, Pinned: true, Value: func(t Trip) any { return t.ID }},
		grid.Column[Trip]{ID: "vehicle_id", Label: "Vehicle", DefaultVisible: true, Value: func(t Trip) any { return t.VehicleID }},
		grid.Column[Trip]{ID: "driver_id", Label: "Driver", DefaultVisible: true, Value: func(t Trip) any { return t.DriverID }},
		grid.Column[Trip]{ID: "origin", Label: "Origin", DefaultVisible: true, Value: func(t Trip) any { return t.Origin }},
		grid.Column[Trip]{ID: "status", Label: "Status", DefaultVisible: true, Align: grid.AlignCenter, Value: func(t Trip) any { return t.Status }},
		grid.Column[Trip]{ID: "start_date", Label: "Start", DefaultVisible: true, Type: grid.TypeDate, Value: func(t Trip) any { return t.StartDate }},
		grid.Column[Trip]{ID: "end_date", Label: "End", DefaultVisible: true, Type: grid.TypeDate, Value: func(t Trip) any { return t.EndDate }},
		grid.Column[Trip]{ID: "remarks", Label: "Remarks", DefaultVisible: false, Value: func(t Trip) any { return t.Remarks }},
	),
	RowID: func(t Trip) string { return t.ID },
	Filters: []FilterDef{
		searchFilter(),
		statusFilter("billed", "completed", "in_progress", "pending"),
		{Name: "vehicle", Label: "Vehicle", Kind: FilterSelect},
		dateFilter("date", "Start Date"),
	},
	Match: func(t Trip, v grid.Values) bool {
		return grid.MatchText(v.String("q"), t.ID, t.Origin, t.Remarks) &&
			grid.MatchAny(t.Status, v.Strings("status")) &&
			grid.MatchAny(t.VehicleID, v.Strings("vehicle")) &&
			v.DateRange("date").Contains(t.StartDate)
	},
	OrderBy: "start_date",
	Order:   grid.Desc,
}

// Subtrips lists consignments with their freight and margin.
var Subtrips = Spec[Subtrip]{
	ID:    "subtrips",
	Title: "Subtrips",
	Columns: grid.MustRegistry("subtrips",
		grid.Column[Subtrip]{ID: "id", Label: "Subtrip", DefaultVisible: true, Disabled: true, Pinned: true, Value: func(s Subtrip) any { return s.ID }},
		grid.Column[Subtrip]{ID: "trip_id", Label: "Trip", DefaultVisible: false, Value: func(s Subtrip) any { return s.TripID }},
		grid.Column[Subtrip]{ID: "customer_id", Label: "Customer", DefaultVisible: true, Value: func(s Subtrip) any { return s.CustomerID }},
		grid.Column[Subtrip]{ID: "route", Label: "Route", DefaultVisible: true, Value: func(s Subtrip) any { return route(s.LoadingPoint, s.UnloadingPoint) }},
		grid.Column[Subtrip]{ID: "material", Label: "Material", DefaultVisible: false, Value: func(s Subtrip) any { return s.Material }},
		grid.Column[Subtrip]{ID: "weight", Label: "Weight (t)", DefaultVisible: true, Type: grid.TypeNumber, ShowTotal: true, Value: func(s Subtrip) any { return s.Weight }},
		grid.Column[Subtrip]{ID: "rate", Label: "Rate", DefaultVisible: false, Type: grid.TypeNumber, Value: func(s Subtrip) any { return s.Rate }},
		grid.Column[Subtrip]{ID: "freight", Label: "Freight", DefaultVisible: true, Type: grid.TypeNumber, ShowTotal: true, Value: func(s Subtrip) any { return s.Freight }},
		grid.Column[Subtrip]{ID: "expenses", Label: "Expenses", DefaultVisible: true, Type: grid.TypeNumber, ShowTotal: true, Value: func(s Subtrip) any { return s.Expenses }},
		grid.Column[Subtrip]{ID: "margin", Label: "Margin", DefaultVisible: true, Type: grid.TypeNumber, ShowTotal: true, Value: func(s Subtrip) any { return s.Margin() }},
		grid.Column[Subtrip]{ID: "status", Label: "Status", DefaultVisible: true, Align: grid.AlignCenter, Value: func(s Subtrip) any { return s.Status }},
		grid.Column[Subtrip]{ID: "start_date", Label: "Start", DefaultVisible: true, Type: grid.TypeDate, Value: func(s Subtrip) any { return s.StartDate }},
		grid.Column[Subtrip]{ID: "invoice_id", Label: "Invoice", DefaultVisible: false, Value: func(s Subtrip) any { return s.InvoiceID }},
	),
	RowID: func(s Subtrip) string { return s.ID },
	Filters: []FilterDef{
		searchFilter(),
		statusFilter("billed", "closed", "in_queue", "loaded", "received"),
		{Name: "customer", Label: "Customer", Kind: FilterSelect},
		{Name: "trip", Label: "Trip", Kind: FilterSelect},
		dateFilter("date", "Start Date"),
	},
	Match: func(s Subtrip, v grid.Values) bool {
		return grid.MatchText(v.String("q"), s.ID, s.LoadingPoint, s.UnloadingPoint, s.Material) &&
			grid.MatchAny(s.Status, v.Strings("status")) &&
			grid.MatchAny(s.CustomerID, v.Strings("customer")) &&
			grid.MatchAny(s.TripID, v.Strings("trip")) &&
			v.DateRange("date").Contains(s.StartDate)
	},
	OrderBy: "start_date",
	Order:   grid.Desc,
}

// Expenses lists costs. Selecting categories narrows the valid types.
var Expenses = Spec[Expense]{
	ID:    "expenses",
	Title: "Expenses",
	Columns: grid.MustRegistry("expenses",
		grid.Column[Expense]{ID: "date", Label: "Date", DefaultVisible: true, Disabled: true, Type: grid.TypeDate, Value: func(e Expense) any { return e.Date }},
		grid.Column[Expense]{ID: "category", Label: "Category", DefaultVisible: true, Value: func(e Expense) any { return e.Category }},
		grid.Column[Expense]{ID: "type", Label: "Type", DefaultVisible: true, Value: func(e Expense) any { return e.Type }},
		grid.Column[Expense]{ID: "vehicle_id", Label: "Vehicle", DefaultVisible: true, Value: func(e Expense) any { return e.VehicleID }},
		grid.Column[Expense]{ID: "subtrip_id", Label: "Subtrip", DefaultVisible: true, Value: func(e Expense) any { return e.SubtripID }},
		grid.Column[Expense]{ID: "amount", Label: "Amount", DefaultVisible: true, Type: grid.TypeNumber, ShowTotal: true, Value: func(e Expense) any { return e.Amount }},
		grid.Column[Expense]{ID: "pump_name", Label: "Pump", DefaultVisible: false, Value: func(e Expense) any { return e.PumpName }},
		grid.Column[Expense]{ID: "remarks", Label: "Remarks", DefaultVisible: false, Value: func(e Expense) any { return e.Remarks }},
	),
	RowID: func(e Expense) string { return e.ID },
	Filters: []FilterDef{
		searchFilter(),
		{Name: "category", Label: "Category", Kind: FilterSelect, Options: ExpenseCategories()},
		{Name: "type", Label: "Type", Kind: FilterSelect, Options: ExpenseTypes()},
		{Name: "vehicle", Label: "Vehicle", Kind: FilterSelect},
		dateFilter("date", "Date"),
	},
	Match: func(e Expense, v grid.Values) bool {
		return grid.MatchText(v.String("q"), e.Remarks, e.PumpName, e.SubtripID, e.VehicleID) &&
			grid.MatchAny(e.Category, v.Strings("category")) &&
			grid.MatchAny(e.Type, v.Strings("type")) &&
			grid.MatchAny(e.VehicleID, v.Strings("vehicle")) &&
			v.DateRange("date").Contains(e.Date)
	},
	OrderBy:     "date",
	Order:       grid.Desc,
	AfterFilter: narrowExpenseTypes,
}

// Invoices lists customer invoices.
var Invoices = Spec[Invoice]{
	ID:    "invoices",
	Title: "Invoices",
	Columns: grid.MustRegistry("invoices",
		grid.Column[Invoice]{ID: "number", Label: "Invoice No", DefaultVisible: true, Disabled: true, Pinned: true, Value: func(i Invoice) any { return i.Number }},
		grid.Column[Invoice]{ID: "customer_id", Label: "Customer", DefaultVisible: true, Value: func(i Invoice) any { return i.CustomerID }},
		grid.Column[Invoice]{ID: "issue_date", Label: "Issued", DefaultVisible: true, Type: grid.TypeDate, Value: func(i Invoice) any { return i.IssueDate }},
		grid.Column[Invoice]{ID: "due_date", Label: "Due", DefaultVisible: true, Type: grid.TypeDate, Value: func(i Invoice) any { return i.DueDate }},
		grid.Column[Invoice]{ID: "status", Label: "Status", DefaultVisible: true, Align: grid.AlignCenter, Value: func(i Invoice) any { return i.Status }},
		grid.Column[Invoice]{ID: "subtotal", Label: "Subtotal", DefaultVisible: false, Type: grid.TypeNumber, ShowTotal: true, Value: func(i Invoice) any { return i.Subtotal }},
		grid.Column[Invoice]{ID: "tax", Label: "Tax", DefaultVisible: false, Type: grid.TypeNumber, ShowTotal: true, Value: func(i Invoice) any { return i.Tax }},
		grid.Column[Invoice]{ID: "total", Label: "Total", DefaultVisible: true, Type: grid.TypeNumber, ShowTotal: true, Value: func(i Invoice) any { return i.Total() }},
	),
	RowID: func(i Invoice) string { return i.ID },
	Filters: []FilterDef{
		searchFilter(),
		statusFilter("draft", "overdue", "paid", "sent"),
		{Name: "customer", Label: "Customer", Kind: FilterSelect},
		dateFilter("issued", "Issue Date"),
	},
	Match: func(i Invoice, v grid.Values) bool {
		return grid.MatchText(v.String("q"), i.Number, i.CustomerID) &&
			grid.MatchAny(i.Status, v.Strings("status")) &&
			grid.MatchAny(i.CustomerID, v.Strings("customer")) &&
			v.DateRange("issued").Contains(i.IssueDate)
	},
	OrderBy: "issue_date",
	Order:   grid.Desc,
}

// PurchaseOrders lists part orders.
var PurchaseOrders = Spec[PurchaseOrder]{
	ID:    "purchase_orders",
	Title: "Purchase Orders",
	Columns: grid.MustRegistry("purchase_orders",
		grid.Column[PurchaseOrder]{ID: "number", Label: "PO No", DefaultVisible: true, Disabled: true, Pinned: true, Value: func(p PurchaseOrder) any { return p.Number }},
		grid.Column[PurchaseOrder]{ID: "vendor", Label: "Vendor", DefaultVisible: true, Value: func(p PurchaseOrder) any { return p.Vendor }},
		grid.Column[PurchaseOrder]{ID: "part", Label: "Part", DefaultVisible: true, Value: func(p PurchaseOrder) any { return p.Part }},
		grid.Column[PurchaseOrder]{ID: "quantity", Label: "Qty", DefaultVisible: true, Type: grid.TypeNumber, ShowTotal: true, Value: func(p PurchaseOrder) any { return p.Quantity }},
		grid.Column[PurchaseOrder]{ID: "unit_cost", Label: "Unit Cost", DefaultVisible: false, Type: grid.TypeNumber, Value: func(p PurchaseOrder) any { return p.UnitCost }},
		grid.Column[PurchaseOrder]{ID: "total", Label: "Total", DefaultVisible: true, Type: grid.TypeNumber, ShowTotal: true, Value: func(p PurchaseOrder) any { return p.Total() }},
		grid.Column[PurchaseOrder]{ID: "status", Label: "Status", DefaultVisible: true, Align: grid.AlignCenter, Value: func(p PurchaseOrder) any { return p.Status }},
		grid.Column[PurchaseOrder]{ID: "ordered_at", Label: "Ordered", DefaultVisible: true, Type: grid.TypeDate, Value: func(p PurchaseOrder) any { return p.OrderedAt }},
	),
	RowID: func(p PurchaseOrder) string { return p.ID },
	Filters: []FilterDef{
		searchFilter(),
		statusFilter("approved", "cancelled", "pending", "received"),
		dateFilter("ordered", "Order Date"),
	},
	Match: func(p PurchaseOrder, v grid.Values) bool {
		return grid.MatchText(v.String("q"), p.Number, p.Vendor, p.Part) &&
			grid.MatchAny(p.Status, v.Strings("status")) &&
			v.DateRange("ordered").Contains(p.OrderedAt)
	},
	OrderBy: "ordered_at",
	Order:   grid.Desc,
}

// Tyres lists tracked tyres.
var Tyres = Spec[Tyre]{
	ID:    "tyres",
	Title: "Tyres",
	Columns: grid.MustRegistry("tyres",
		grid.Column[Tyre]{ID: "serial_no", Label: "Serial No", DefaultVisible: true, Disabled: true, Pinned: true, Value: func(t Tyre) any { return t.SerialNo }},
		grid.Column[Tyre]{ID: "brand", Label: "Brand", DefaultVisible: true, Value: func(t Tyre) any { return t.Brand }},
		grid.Column[Tyre]{ID: "size", Label: "Size", DefaultVisible: true, Value: func(t Tyre) any { return t.Size }},
		grid.Column[Tyre]{ID: "vehicle_id", Label: "Vehicle", DefaultVisible: true, Value: func(t Tyre) any { return t.VehicleID }},
		grid.Column[Tyre]{ID: "position", Label: "Position", DefaultVisible: true, Value: func(t Tyre) any { return t.Position }},
		grid.Column[Tyre]{ID: "status", Label: "Status", DefaultVisible: true, Align: grid.AlignCenter, Value: func(t Tyre) any { return t.Status }},
		grid.Column[Tyre]{ID: "km_run", Label: "Km Run", DefaultVisible: true, Type: grid.TypeNumber, Value: func(t Tyre) any { return t.KmRun }},
		grid.Column[Tyre]{ID: "cost", Label: "Cost", DefaultVisible: false, Type: grid.TypeNumber, ShowTotal: true, Value: func(t Tyre) any { return t.Cost }},
		grid.Column[Tyre]{ID: "installed_at", Label: "Installed", DefaultVisible: false, Type: grid.TypeDate, Value: func(t Tyre) any { return t.InstalledAt }},
	),
	RowID: func(t Tyre) string { return t.ID },
	Filters: []FilterDef{
		searchFilter(),
		statusFilter("in_stock", "in_use", "scrapped"),
		{Name: "vehicle", Label: "Vehicle", Kind: FilterSelect},
	},
	Match: func(t Tyre, v grid.Values) bool {
		return grid.MatchText(v.String("q"), t.SerialNo, t.Brand, t.Size) &&
			grid.MatchAny(t.Status, v.Strings("status")) &&
			grid.MatchAny(t.VehicleID, v.Strings("vehicle"))
	},
	OrderBy: "serial_no",
	Order:   grid.Asc,
}

// Tenants lists the companies using the back office. Only active tenants
// are shown until the status filter is reset or changed.
var Tenants = Spec[Tenant]{
	ID:    "tenants",
	Title: "Tenants",
	Columns: grid.MustRegistry("tenants",
		grid.Column[Tenant]{ID: "name", Label: "Tenant", DefaultVisible: true, Disabled: true, Pinned: true, Value: func(t Tenant) any { return t.Name }},
		grid.Column[Tenant]{ID: "plan", Label: "Plan", DefaultVisible: true, Value: func(t Tenant) any { return t.Plan }},
		grid.Column[Tenant]{ID: "status", Label: "Status", DefaultVisible: true, Align: grid.AlignCenter, Value: func(t Tenant) any { return t.Status }},
		grid.Column[Tenant]{ID: "users", Label: "Users", DefaultVisible: true, Type: grid.TypeNumber, ShowTotal: true, Value: func(t Tenant) any { return t.Users }},
		grid.Column[Tenant]{ID: "contact_email", Label: "Contact", DefaultVisible: true, Value: func(t Tenant) any { return t.ContactEmail }},
		grid.Column[Tenant]{ID: "created_at", Label: "Created", DefaultVisible: false, Type: grid.TypeDate, Value: func(t Tenant) any { return t.CreatedAt }},
	),
	RowID: func(t Tenant) string { return t.ID },
	Filters: []FilterDef{
		searchFilter(),
		{Name: "plan", Label: "Plan", Kind: FilterSelect, Options: []string{"basic", "enterprise", "pro"}},
		{Name: "status", Label: "Status", Kind: FilterSelect, Options: []string{"active", "suspended", "trial"}, Default: []string{"active"}},
	},
	Match: func(t Tenant, v grid.Values) bool {
		return grid.MatchText(v.String("q"), t.Name, t.ContactEmail) &&
			grid.MatchAny(t.Plan, v.Strings("plan")) &&
			grid.MatchAny(t.Status, v.Strings("status"))
	},
	OrderBy: "name",
	Order:   grid.Asc,
}

func route(from, to string) string {
	switch {
	case from == "" && to == "":
		return ""
	case from == "":
		return "? → " + to
	case to == "":
		return from + " → ?"
	}
	return from + " → " + to
}
