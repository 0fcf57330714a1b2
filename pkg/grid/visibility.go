package grid

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/google/go-cmp/cmp"
)

// Header is the rendering metadata of a visible column.
type Header struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Align Align  `json:"align"`
}

// columnSet is the registry view needed by Visibility; it erases the row type.
type columnSet interface {
	Table() string
	Order() []string
	DefaultVisibleColumns() map[string]bool
	DisabledColumns() map[string]bool
	Infos() []Info
}

// Visibility controls which columns of a table are shown and in which order.
// Every mutation is persisted to the state store when one is configured.
type Visibility struct {
	cols     columnSet
	infos    map[string]Info
	defaults map[string]bool
	disabled map[string]bool
	order0   []string

	visible map[string]bool
	order   []string

	store StateStore
	key   StorageKey
}

// NewVisibility creates the controller for reg and restores any state saved
// under key. A nil store keeps the state in memory only.
//
// When the saved state cannot be read the controller is still returned,
// seeded with the registry defaults, together with an error wrapping
// ErrStateLoad. Later mutations overwrite the unreadable state.
func NewVisibility[R any](ctx context.Context, reg *Registry[R], store StateStore, key StorageKey) (*Visibility, error) {
	return newVisibility(ctx, reg, store, key)
}

func newVisibility(ctx context.Context, cols columnSet, store StateStore, key StorageKey) (*Visibility, error) {
	if store != nil {
		if key.IsZero() {
			return nil, fmt.Errorf("%w: a storage key is required with a state store", ErrInvalidKey)
		}
		if key.Table() != cols.Table() {
			return nil, fmt.Errorf("%w: key %s does not belong to table %s", ErrInvalidKey, key, cols.Table())
		}
	}

	v := &Visibility{
		cols:     cols,
		infos:    make(map[string]Info),
		defaults: cols.DefaultVisibleColumns(),
		disabled: cols.DisabledColumns(),
		order0:   cols.Order(),
		store:    store,
		key:      key,
	}
	for _, info := range cols.Infos() {
		v.infos[info.ID] = info
	}
	v.visible = maps.Clone(v.defaults)
	v.order = slices.Clone(v.order0)

	if store == nil {
		return v, nil
	}

	saved, ok, err := store.Load(ctx, key)
	if err != nil {
		return v, fmt.Errorf("%w %s: %w", ErrStateLoad, key, err)
	}
	if ok {
		v.restore(saved)
	}
	return v, nil
}

// restore merges a saved state into the registry defaults. Ids unknown to
// the registry are dropped; columns missing from the saved order are
// appended in registry order with their default visibility.
func (v *Visibility) restore(s ViewState) {
	for id, shown := range s.VisibleColumns {
		if _, known := v.defaults[id]; known {
			v.visible[id] = shown
		}
	}

	order := make([]string, 0, len(v.order0))
	seen := make(map[string]bool, len(v.order0))
	for _, id := range s.ColumnOrder {
		if _, known := v.defaults[id]; known && !seen[id] {
			order = append(order, id)
			seen[id] = true
		}
	}
	for _, id := range v.order0 {
		if !seen[id] {
			order = append(order, id)
		}
	}
	v.order = order
}

// Key returns the storage key of the controller.
func (v *Visibility) Key() StorageKey { return v.key }

// Toggle flips the visibility of a column. Disabled and unknown columns are
// left untouched.
func (v *Visibility) Toggle(ctx context.Context, id string) error {
	if _, known := v.defaults[id]; !known || v.disabled[id] {
		return nil
	}
	v.visible[id] = !v.visible[id]
	return v.persist(ctx)
}

// SetVisible shows or hides a single column.
func (v *Visibility) SetVisible(ctx context.Context, id string, visible bool) error {
	if _, known := v.defaults[id]; !known || v.disabled[id] {
		return nil
	}
	if v.visible[id] == visible {
		return nil
	}
	v.visible[id] = visible
	return v.persist(ctx)
}

// ToggleAll shows or hides every column that can be hidden.
func (v *Visibility) ToggleAll(ctx context.Context, visible bool) error {
	for id := range v.visible {
		if !v.disabled[id] {
			v.visible[id] = visible
		}
	}
	return v.persist(ctx)
}

// Move relocates a column to toIndex in the column order. The index is
// clamped into range. Pinned and unknown columns do not move.
func (v *Visibility) Move(ctx context.Context, id string, toIndex int) error {
	from := slices.Index(v.order, id)
	if from < 0 || v.infos[id].Pinned {
		return nil
	}
	toIndex = max(0, min(toIndex, len(v.order)-1))
	if from == toIndex {
		return nil
	}
	order := slices.Delete(slices.Clone(v.order), from, from+1)
	v.order = slices.Insert(order, toIndex, id)
	return v.persist(ctx)
}

// Reset restores the registry defaults and removes the persisted override.
func (v *Visibility) Reset(ctx context.Context) error {
	v.visible = maps.Clone(v.defaults)
	v.order = slices.Clone(v.order0)
	if v.store == nil {
		return nil
	}
	if err := v.store.Delete(ctx, v.key); err != nil {
		return fmt.Errorf("failed to delete view state %s: %w", v.key, err)
	}
	return nil
}

// Has reports whether id names a column of the table.
func (v *Visibility) Has(id string) bool {
	_, ok := v.defaults[id]
	return ok
}

// IsVisible reports whether a column is rendered.
func (v *Visibility) IsVisible(id string) bool {
	return v.visible[id] || v.disabled[id]
}

// VisibleIDs returns the rendered column ids in display order.
func (v *Visibility) VisibleIDs() []string {
	ids := make([]string, 0, len(v.order))
	for _, id := range v.order {
		if v.IsVisible(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// VisibleHeaders returns the header metadata of the rendered columns.
func (v *Visibility) VisibleHeaders() []Header {
	ids := v.VisibleIDs()
	headers := make([]Header, len(ids))
	for i, id := range ids {
		info := v.infos[id]
		headers[i] = Header{ID: id, Label: info.Label, Align: info.Align}
	}
	return headers
}

// ColumnState is a column of the order together with its visibility.
type ColumnState struct {
	Info
	Visible bool `json:"visible"`
}

// Columns returns every column in display order with its visibility, for
// column pickers.
func (v *Visibility) Columns() []ColumnState {
	out := make([]ColumnState, len(v.order))
	for i, id := range v.order {
		out[i] = ColumnState{Info: v.infos[id], Visible: v.IsVisible(id)}
	}
	return out
}

// Order returns the full column order, hidden columns included.
func (v *Visibility) Order() []string {
	return slices.Clone(v.order)
}

// State returns a copy of the current state.
func (v *Visibility) State() ViewState {
	return ViewState{VisibleColumns: maps.Clone(v.visible), ColumnOrder: slices.Clone(v.order)}
}

// CanReset reports whether the state differs from the registry defaults.
func (v *Visibility) CanReset() bool {
	return !cmp.Equal(v.visible, v.defaults) || !slices.Equal(v.order, v.order0)
}

func (v *Visibility) persist(ctx context.Context) error {
	if v.store == nil {
		return nil
	}
	if err := v.store.Save(ctx, v.key, v.State()); err != nil {
		return fmt.Errorf("failed to save view state %s: %w", v.key, err)
	}
	return nil
}
