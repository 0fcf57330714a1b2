package fleet

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a consignor billed for subtrips.
type Customer struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	GSTIN       string          `json:"gstin" yaml:"gstin"`
	City        string          `json:"city" yaml:"city"`
	State       string          `json:"state" yaml:"state"`
	Phone       string          `json:"phone" yaml:"phone"`
	Email       string          `json:"email" yaml:"email"`
	Status      string          `json:"status" yaml:"status"`
	CreditLimit decimal.Decimal `json:"credit_limit" yaml:"credit_limit"`
	CreatedAt   time.Time       `json:"created_at" yaml:"created_at"`
}

// Vehicle is a truck or trailer of the fleet, owned or hired from market.
type Vehicle struct {
	ID            string    `json:"id" yaml:"id"`
	RegNo         string    `json:"reg_no" yaml:"reg_no"`
	Type          string    `json:"type" yaml:"type"`
	Make          string    `json:"make" yaml:"make"`
	Model         string    `json:"model" yaml:"model"`
	Year          int       `json:"year" yaml:"year"`
	Ownership     string    `json:"ownership" yaml:"ownership"`
	DriverID      string    `json:"driver_id" yaml:"driver_id"`
	Status        string    `json:"status" yaml:"status"`
	FitnessExpiry time.Time `json:"fitness_expiry" yaml:"fitness_expiry"`
}

// Driver operates vehicles on trips.
type Driver struct {
	ID            string          `json:"id" yaml:"id"`
	Name          string          `json:"name" yaml:"name"`
	Phone         string          `json:"phone" yaml:"phone"`
	LicenseNo     string          `json:"license_no" yaml:"license_no"`
	LicenseExpiry time.Time       `json:"license_expiry" yaml:"license_expiry"`
	Status        string          `json:"status" yaml:"status"`
	Salary        decimal.Decimal `json:"salary" yaml:"salary"`
	JoinedAt      time.Time       `json:"joined_at" yaml:"joined_at"`
}

// Trip is one vehicle journey, split into subtrips per consignment.
type Trip struct {
	ID        string    `json:"id" yaml:"id"`
	VehicleID string    `json:"vehicle_id" yaml:"vehicle_id"`
	DriverID  string    `json:"driver_id" yaml:"driver_id"`
	Origin    string    `json:"origin" yaml:"origin"`
	Status    string    `json:"status" yaml:"status"`
	StartDate time.Time `json:"start_date" yaml:"start_date"`
	EndDate   time.Time `json:"end_date" yaml:"end_date"`
	Remarks   string    `json:"remarks" yaml:"remarks"`
}

// Subtrip is one consignment carried on a trip.
type Subtrip struct {
	ID             string          `json:"id" yaml:"id"`
	TripID         string          `json:"trip_id" yaml:"trip_id"`
	CustomerID     string          `json:"customer_id" yaml:"customer_id"`
	LoadingPoint   string          `json:"loading_point" yaml:"loading_point"`
	UnloadingPoint string          `json:"unloading_point" yaml:"unloading_point"`
	Material       string          `json:"material" yaml:"material"`
	Weight         decimal.Decimal `json:"weight" yaml:"weight"`
	Rate           decimal.Decimal `json:"rate" yaml:"rate"`
	Freight        decimal.Decimal `json:"freight" yaml:"freight"`
	Expenses       decimal.Decimal `json:"expenses" yaml:"expenses"`
	Status         string          `json:"status" yaml:"status"`
	StartDate      time.Time       `json:"start_date" yaml:"start_date"`
	EndDate        time.Time       `json:"end_date" yaml:"end_date"`
	InvoiceID      string          `json:"invoice_id" yaml:"invoice_id"`
}

// Margin is the freight earned minus the expenses booked on the subtrip.
func (s Subtrip) Margin() decimal.Decimal {
	return s.Freight.Sub(s.Expenses)
}

// Expense is a cost booked against a vehicle or a subtrip.
type Expense struct {
	ID        string          `json:"id" yaml:"id"`
	Date      time.Time       `json:"date" yaml:"date"`
	Category  string          `json:"category" yaml:"category"`
	Type      string          `json:"type" yaml:"type"`
	VehicleID string          `json:"vehicle_id" yaml:"vehicle_id"`
	SubtripID string          `json:"subtrip_id" yaml:"subtrip_id"`
	Amount    decimal.Decimal `json:"amount" yaml:"amount"`
	PumpName  string          `json:"pump_name" yaml:"pump_name"`
	Remarks   string          `json:"remarks" yaml:"remarks"`
}

// Invoice bills a customer for completed subtrips.
type Invoice struct {
	ID         string          `json:"id" yaml:"id"`
	Number     string          `json:"number" yaml:"number"`
	CustomerID string          `json:"customer_id" yaml:"customer_id"`
	IssueDate  time.Time       `json:"issue_date" yaml:"issue_date"`
	DueDate    time.Time       `json:"due_date" yaml:"due_date"`
	Status     string          `json:"status" yaml:"status"`
	Subtotal   decimal.Decimal `json:"subtotal" yaml:"subtotal"`
	Tax        decimal.Decimal `json:"tax" yaml:"tax"`
}

// Total is the invoice amount including tax.
func (i Invoice) Total() decimal.Decimal {
	return i.Subtotal.Add(i.Tax)
}

// PurchaseOrder orders parts from a vendor.
type PurchaseOrder struct {
	ID        string          `json:"id" yaml:"id"`
	Number    string          `json:"number" yaml:"number"`
	Vendor    string          `json:"vendor" yaml:"vendor"`
	Part      string          `json:"part" yaml:"part"`
	Quantity  int             `json:"quantity" yaml:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost" yaml:"unit_cost"`
	Status    string          `json:"status" yaml:"status"`
	OrderedAt time.Time       `json:"ordered_at" yaml:"ordered_at"`
}

// Total is quantity times unit cost.
func (p PurchaseOrder) Total() decimal.Decimal {
	return p.UnitCost.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// Tyre is a tracked tyre, fitted on a vehicle or in stock.
type Tyre struct {
	ID          string          `json:"id" yaml:"id"`
	SerialNo    string          `json:"serial_no" yaml:"serial_no"`
	Brand       string          `json:"brand" yaml:"brand"`
	Size        string          `json:"size" yaml:"size"`
	VehicleID   string          `json:"vehicle_id" yaml:"vehicle_id"`
	Position    string          `json:"position" yaml:"position"`
	Status      string          `json:"status" yaml:"status"`
	KmRun       int             `json:"km_run" yaml:"km_run"`
	Cost        decimal.Decimal `json:"cost" yaml:"cost"`
	InstalledAt time.Time       `json:"installed_at" yaml:"installed_at"`
}

// Tenant is a transport company using the back office.
type Tenant struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Plan         string    `json:"plan" yaml:"plan"`
	Status       string    `json:"status" yaml:"status"`
	Users        int       `json:"users" yaml:"users"`
	ContactEmail string    `json:"contact_email" yaml:"contact_email"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}
