// Package fleet declares the back office tables: customers, vehicles,
// drivers, trips, subtrips, expenses, invoices, purchase orders, tyres and
// tenants.
//
// Each table is a Spec: a column registry, the filters it offers, a match
// predicate and a default sort. Binding a Spec to a row source yields a
// Table whose row type is erased, so the CLI and the HTTP server can open
// views, page through rows and export them by table id alone.
package fleet
