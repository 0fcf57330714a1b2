package grid

// Window is a page position. RowsPerPage <= 0 shows every row on page 0.
type Window struct {
	Page        int `json:"page"`
	RowsPerPage int `json:"rowsPerPage"`
}

// Bounds returns the half-open slice [start, end) of the page within total
// rows. Pages past the end yield an empty range.
func (w Window) Bounds(total int) (start, end int) {
	if total <= 0 {
		return 0, 0
	}
	if w.RowsPerPage <= 0 {
		return 0, total
	}
	start = max(0, w.Page) * w.RowsPerPage
	if start >= total {
		return total, total
	}
	return start, min(start+w.RowsPerPage, total)
}

// EmptyRows returns how many filler rows keep the page at full height. For
// any total > 0 the rows on the page plus the filler equal rowsPerPage.
func EmptyRows(page, rowsPerPage, total int) int {
	if rowsPerPage <= 0 {
		return 0
	}
	page = max(0, page)
	if page*rowsPerPage+rowsPerPage <= total {
		return 0
	}
	return min(rowsPerPage, max(0, rowsPerPage-(total-page*rowsPerPage)))
}

// ClampPage returns page limited to the last page holding rows, and never
// less than 0.
func ClampPage(page, rowsPerPage, total int) int {
	if page <= 0 || rowsPerPage <= 0 || total <= 0 {
		return 0
	}
	last := (total - 1) / rowsPerPage
	return min(page, last)
}

// Paginate returns the rows of the page.
func Paginate[R any](rows []R, w Window) []R {
	start, end := w.Bounds(len(rows))
	return rows[start:end]
}
