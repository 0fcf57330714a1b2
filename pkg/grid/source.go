package grid

import (
	"context"
	"encoding/json"
	"fmt"
)

// Query is the parameter set handed to a row source.
type Query struct {
	Page        int    `json:"page"`
	RowsPerPage int    `json:"rowsPerPage"`
	OrderBy     string `json:"orderBy,omitempty"`
	Order       Order  `json:"order,omitempty"`
	Filters     Values `json:"filters,omitempty"`
}

// Key returns a deterministic identity of the query, used to de-duplicate
// in-flight fetches.
func (q Query) Key() string {
	b, err := json.Marshal(q)
	if err != nil {
		// Filter values JSON cannot encode; maps print in key order.
		return fmt.Sprintf("%#v", q)
	}
	return string(b)
}

// Window returns the page window of the query.
func (q Query) Window() Window {
	return Window{Page: q.Page, RowsPerPage: q.RowsPerPage}
}

// Result is the envelope returned by a row source.
type Result[R any] struct {
	Rows  []R `json:"rows"`
	Total int `json:"total"`
}

// Source fetches rows for a query. Implementations own loading and error
// states; the table core only consumes the result.
type Source[R any] interface {
	Fetch(ctx context.Context, q Query) (Result[R], error)
}
