package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelection(t *testing.T) {
	s := NewSelection()
	page := []string{"a", "b", "c"}

	assert.False(t, s.AllSelected(page))
	assert.False(t, s.SomeSelected(page))

	s.Toggle("b")
	assert.True(t, s.IsSelected("b"))
	assert.True(t, s.SomeSelected(page))
	assert.False(t, s.AllSelected(page))

	s.Toggle("b")
	assert.False(t, s.IsSelected("b"))
	assert.Equal(t, 0, s.Len())

	s.SelectAll(page)
	assert.True(t, s.AllSelected(page))
	assert.False(t, s.SomeSelected(page))
	assert.Equal(t, []string{"a", "b", "c"}, s.IDs())

	s.SelectAll([]string{"z"})
	assert.Equal(t, []string{"z"}, s.IDs())

	s.SelectNone()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.AllSelected(nil))
}
