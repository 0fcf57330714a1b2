package source

import (
	"context"
	"slices"
	"sync"

	"github.com/leapstack-labs/fleetgrid/pkg/grid"
)

// Memory is a grid.Source over an in-process row snapshot.
type Memory[R any] struct {
	reg   *grid.Registry[R]
	match func(R, grid.Values) bool

	mu   sync.RWMutex
	rows []R
}

// NewMemory creates a source serving rows. match may be nil.
func NewMemory[R any](reg *grid.Registry[R], match func(R, grid.Values) bool, rows []R) *Memory[R] {
	return &Memory[R]{reg: reg, match: match, rows: slices.Clone(rows)}
}

// Replace swaps the snapshot, e.g. after the dataset file changed.
func (m *Memory[R]) Replace(rows []R) {
	m.mu.Lock()
	m.rows = slices.Clone(rows)
	m.mu.Unlock()
}

// Len returns the number of rows in the snapshot.
func (m *Memory[R]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

// Fetch filters, sorts and pages the snapshot. A page past the end yields
// no rows together with the real total, so callers can clamp.
func (m *Memory[R]) Fetch(ctx context.Context, q grid.Query) (grid.Result[R], error) {
	if err := ctx.Err(); err != nil {
		return grid.Result[R]{}, err
	}

	m.mu.RLock()
	rows := m.rows
	m.mu.RUnlock()

	filtered := make([]R, 0, len(rows))
	for _, r := range rows {
		if m.match == nil || m.match(r, q.Filters) {
			filtered = append(filtered, r)
		}
	}
	sorted := grid.SortRows(filtered, m.reg, q.OrderBy, q.Order)

	return grid.Result[R]{
		Rows:  slices.Clone(grid.Paginate(sorted, q.Window())),
		Total: len(sorted),
	}, nil
}
