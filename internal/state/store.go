// Package state persists table view state (column visibility and order).
//
// Two grid.StateStore implementations are provided: MemoryStore keeps state
// for the lifetime of the process, SQLiteStore keeps it in a SQLite
// database whose schema is managed by embedded goose migrations.
package state

import (
	"context"
	"sync"
	"time"

	"github.com/leapstack-labs/fleetgrid/pkg/grid"
)

// Entry describes one stored view state.
type Entry struct {
	Key       grid.StorageKey
	UpdatedAt time.Time
}

var (
	_ grid.StateStore = (*MemoryStore)(nil)
	_ grid.StateStore = (*SQLiteStore)(nil)
)

// MemoryStore is a volatile, concurrency-safe StateStore. Payloads are kept
// encoded so loads never alias caller state.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	key       grid.StorageKey
	payload   []byte
	updatedAt time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// Load returns the state stored under key.
func (m *MemoryStore) Load(_ context.Context, key grid.StorageKey) (grid.ViewState, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key.String()]
	m.mu.RUnlock()
	if !ok {
		return grid.ViewState{}, false, nil
	}
	return grid.DecodeState(e.payload)
}

// Save stores s under key.
func (m *MemoryStore) Save(_ context.Context, key grid.StorageKey, s grid.ViewState) error {
	payload, err := grid.EncodeState(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[key.String()] = memoryEntry{key: key, payload: payload, updatedAt: time.Now().UTC()}
	m.mu.Unlock()
	return nil
}

// Delete removes the state stored under key.
func (m *MemoryStore) Delete(_ context.Context, key grid.StorageKey) error {
	m.mu.Lock()
	delete(m.entries, key.String())
	m.mu.Unlock()
	return nil
}

// List returns the entries of namespace ordered by key.
func (m *MemoryStore) List(_ context.Context, namespace string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Entry
	for _, e := range m.entries {
		if e.key.Namespace() == namespace {
			out = append(out, Entry{Key: e.key, UpdatedAt: e.updatedAt})
		}
	}
	sortEntries(out)
	return out, nil
}
