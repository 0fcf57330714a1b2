package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow_Bounds(t *testing.T) {
	tests := []struct {
		name      string
		window    Window
		total     int
		wantStart int
		wantEnd   int
	}{
		{name: "partial last page", window: Window{Page: 2, RowsPerPage: 10}, total: 25, wantStart: 20, wantEnd: 25},
		{name: "first page", window: Window{Page: 0, RowsPerPage: 10}, total: 25, wantStart: 0, wantEnd: 10},
		{name: "past the end", window: Window{Page: 5, RowsPerPage: 10}, total: 25, wantStart: 25, wantEnd: 25},
		{name: "no rows", window: Window{Page: 0, RowsPerPage: 10}, total: 0, wantStart: 0, wantEnd: 0},
		{name: "all rows", window: Window{Page: 3, RowsPerPage: 0}, total: 7, wantStart: 0, wantEnd: 7},
		{name: "negative page", window: Window{Page: -1, RowsPerPage: 5}, total: 7, wantStart: 0, wantEnd: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.window.Bounds(tt.total)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestEmptyRows(t *testing.T) {
	assert.Equal(t, 5, EmptyRows(2, 10, 25))
	assert.Equal(t, 0, EmptyRows(1, 10, 25))
	assert.Equal(t, 0, EmptyRows(0, 10, 10))
	assert.Equal(t, 10, EmptyRows(0, 10, 0))
	assert.Equal(t, 10, EmptyRows(4, 10, 25))
	assert.Equal(t, 0, EmptyRows(0, 0, 25))
}

func TestEmptyRows_FillsPage(t *testing.T) {
	for total := 1; total <= 40; total++ {
		for _, rpp := range []int{1, 3, 10, 25} {
			for page := 0; page <= (total-1)/rpp; page++ {
				start, end := Window{Page: page, RowsPerPage: rpp}.Bounds(total)
				assert.Equal(t, rpp, end-start+EmptyRows(page, rpp, total),
					"total=%d rpp=%d page=%d", total, rpp, page)
			}
		}
	}
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 0, ClampPage(3, 10, 5))
	assert.Equal(t, 2, ClampPage(2, 10, 25))
	assert.Equal(t, 2, ClampPage(9, 10, 25))
	assert.Equal(t, 1, ClampPage(1, 10, 20))
	assert.Equal(t, 0, ClampPage(4, 10, 0))
	assert.Equal(t, 0, ClampPage(-2, 10, 50))
	assert.Equal(t, 0, ClampPage(4, 0, 50))
}

func TestPaginate(t *testing.T) {
	rows := make([]int, 25)
	for i := range rows {
		rows[i] = i
	}

	assert.Equal(t, []int{20, 21, 22, 23, 24}, Paginate(rows, Window{Page: 2, RowsPerPage: 10}))
	assert.Empty(t, Paginate(rows, Window{Page: 3, RowsPerPage: 10}))
	assert.Len(t, Paginate(rows, Window{RowsPerPage: -1}), 25)
}
