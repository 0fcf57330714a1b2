// Package source provides row sources for grid views.
//
// A row source answers a grid.Query with one page of rows and the total
// number of matching rows. Memory serves an in-process snapshot, HTTP calls
// the REST back office. Loader wraps any source so identical in-flight
// queries share one fetch and responses for superseded queries are dropped.
package source
