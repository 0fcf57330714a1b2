package source

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/leapstack-labs/fleetgrid/pkg/grid"
	"golang.org/x/sync/singleflight"
)

// ErrStale is returned by Loader.Load when a newer load started before this
// one finished. Its result must not be applied.
var ErrStale = errors.New("stale row source response")

// Loader fetches through a source on behalf of one view.
type Loader[R any] struct {
	src   grid.Source[R]
	group singleflight.Group
	gen   atomic.Uint64
}

// NewLoader wraps src.
func NewLoader[R any](src grid.Source[R]) *Loader[R] {
	return &Loader[R]{src: src}
}

// Load fetches q. Concurrent loads of the same query share one fetch.
func (l *Loader[R]) Load(ctx context.Context, q grid.Query) (grid.Result[R], error) {
	gen := l.gen.Add(1)

	v, err, _ := l.group.Do(q.Key(), func() (any, error) {
		return l.src.Fetch(ctx, q)
	})
	if l.gen.Load() != gen {
		return grid.Result[R]{}, ErrStale
	}
	if err != nil {
		return grid.Result[R]{}, err
	}
	return v.(grid.Result[R]), nil
}
