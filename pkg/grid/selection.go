package grid

import (
	"maps"
	"slices"
)

// Selection is a set of selected row ids.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Toggle flips the membership of id.
func (s *Selection) Toggle(id string) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// SelectAll replaces the selection with exactly ids.
func (s *Selection) SelectAll(ids []string) {
	s.ids = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// SelectNone empties the selection.
func (s *Selection) SelectNone() {
	clear(s.ids)
}

// IsSelected reports whether id is selected.
func (s *Selection) IsSelected(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected ids.
func (s *Selection) Len() int { return len(s.ids) }

// IDs returns the selected ids sorted, for display.
func (s *Selection) IDs() []string {
	return slices.Sorted(maps.Keys(s.ids))
}

// AllSelected reports whether every id of ids is selected. It is false for
// an empty ids list.
func (s *Selection) AllSelected(ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !s.IsSelected(id) {
			return false
		}
	}
	return true
}

// SomeSelected reports whether at least one, but not every, id of ids is
// selected.
func (s *Selection) SomeSelected(ids []string) bool {
	n := 0
	for _, id := range ids {
		if s.IsSelected(id) {
			n++
		}
	}
	return n > 0 && n < len(ids)
}
