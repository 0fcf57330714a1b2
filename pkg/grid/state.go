package grid

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// StateVersion is the version of the persisted ViewState envelope.
// Envelopes written with another version are discarded on load.
const StateVersion = 1

const keyPrefix = "fleetgrid"

// StorageKey names the persisted view state of one table for one namespace
// (a user, a CLI profile, a tenant).
type StorageKey struct {
	namespace string
	table     string
}

// NewStorageKey validates namespace and table and builds a key.
func NewStorageKey(namespace, table string) (StorageKey, error) {
	if !identPattern.MatchString(namespace) {
		return StorageKey{}, fmt.Errorf("%w: namespace %q", ErrInvalidKey, namespace)
	}
	if !identPattern.MatchString(table) {
		return StorageKey{}, fmt.Errorf("%w: table %q", ErrInvalidKey, table)
	}
	return StorageKey{namespace: namespace, table: table}, nil
}

// ParseStorageKey parses the String form of a key.
func ParseStorageKey(s string) (StorageKey, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 4 || parts[0] != keyPrefix || parts[3] != "v"+strconv.Itoa(StateVersion) {
		return StorageKey{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return NewStorageKey(parts[1], parts[2])
}

// Namespace returns the key namespace.
func (k StorageKey) Namespace() string { return k.namespace }

// Table returns the table id of the key.
func (k StorageKey) Table() string { return k.table }

// IsZero reports whether k was never initialized.
func (k StorageKey) IsZero() bool { return k.table == "" }

// String returns the canonical key, e.g. "fleetgrid/default/expenses/v1".
func (k StorageKey) String() string {
	return keyPrefix + "/" + k.namespace + "/" + k.table + "/v" + strconv.Itoa(StateVersion)
}

// ViewState is the persisted column visibility and order of a table.
type ViewState struct {
	VisibleColumns map[string]bool `json:"visibleColumns"`
	ColumnOrder    []string        `json:"columnOrder"`
}

// Clone returns a deep copy of s.
func (s ViewState) Clone() ViewState {
	return ViewState{
		VisibleColumns: maps.Clone(s.VisibleColumns),
		ColumnOrder:    slices.Clone(s.ColumnOrder),
	}
}

type envelope struct {
	Version        int             `json:"version"`
	VisibleColumns map[string]bool `json:"visibleColumns"`
	ColumnOrder    []string        `json:"columnOrder"`
}

// EncodeState serializes s into the versioned JSON envelope.
func EncodeState(s ViewState) ([]byte, error) {
	return json.Marshal(envelope{
		Version:        StateVersion,
		VisibleColumns: s.VisibleColumns,
		ColumnOrder:    s.ColumnOrder,
	})
}

// DecodeState parses a versioned envelope. It reports false, without error,
// when the envelope was written by another version.
func DecodeState(data []byte) (ViewState, bool, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return ViewState{}, false, fmt.Errorf("failed to decode view state: %w", err)
	}
	if env.Version != StateVersion {
		return ViewState{}, false, nil
	}
	return ViewState{VisibleColumns: env.VisibleColumns, ColumnOrder: env.ColumnOrder}, true, nil
}

// StateStore persists view states by key.
type StateStore interface {
	// Load returns the stored state. ok is false when nothing usable is stored.
	Load(ctx context.Context, key StorageKey) (state ViewState, ok bool, err error)
	Save(ctx context.Context, key StorageKey, state ViewState) error
	Delete(ctx context.Context, key StorageKey) error
}
