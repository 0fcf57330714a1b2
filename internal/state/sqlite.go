package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/leapstack-labs/fleetgrid/pkg/grid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// SQLiteStore implements grid.StateStore using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewSQLiteStore creates a new SQLite state store instance.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{now: time.Now}
}

// NewSQLiteStoreWithDB wraps an already opened database. The schema is not
// migrated.
func NewSQLiteStoreWithDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// OpenSQLiteStore opens the database at path, creating parent directories,
// and applies migrations.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	s := NewSQLiteStore()
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	if err := s.Open(path); err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	if path == ":memory:" {
		dsn = ":memory:"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database path given to Open.
func (s *SQLiteStore) Path() string { return s.path }

// Load returns the state stored under key. Rows written by another envelope
// version, or with an unreadable payload, count as not stored.
func (s *SQLiteStore) Load(ctx context.Context, key grid.StorageKey) (grid.ViewState, bool, error) {
	if s.db == nil {
		return grid.ViewState{}, false, errNotOpened
	}

	var (
		version int
		payload string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT version, payload FROM view_states WHERE key = ?`,
		key.String(),
	).Scan(&version, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return grid.ViewState{}, false, nil
	}
	if err != nil {
		return grid.ViewState{}, false, fmt.Errorf("failed to load view state %s: %w", key, err)
	}
	if version != grid.StateVersion {
		return grid.ViewState{}, false, nil
	}

	vs, ok, err := grid.DecodeState([]byte(payload))
	if err != nil {
		return grid.ViewState{}, false, fmt.Errorf("view state %s: %w", key, err)
	}
	return vs, ok, nil
}

// Save upserts the state stored under key.
func (s *SQLiteStore) Save(ctx context.Context, key grid.StorageKey, vs grid.ViewState) error {
	if s.db == nil {
		return errNotOpened
	}

	payload, err := grid.EncodeState(vs)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO view_states (key, namespace, table_id, version, payload, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			version = excluded.version,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		key.String(), key.Namespace(), key.Table(), grid.StateVersion, string(payload), s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save view state %s: %w", key, err)
	}
	return nil
}

// Delete removes the state stored under key.
func (s *SQLiteStore) Delete(ctx context.Context, key grid.StorageKey) error {
	if s.db == nil {
		return errNotOpened
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM view_states WHERE key = ?`, key.String()); err != nil {
		return fmt.Errorf("failed to delete view state %s: %w", key, err)
	}
	return nil
}

// List returns the entries of namespace ordered by key.
func (s *SQLiteStore) List(ctx context.Context, namespace string) ([]Entry, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, updated_at FROM view_states WHERE namespace = ? ORDER BY key`,
		namespace,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list view states: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			raw       string
			updatedAt time.Time
		)
		if err := rows.Scan(&raw, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan view state: %w", err)
		}
		key, err := grid.ParseStorageKey(raw)
		if err != nil {
			// Keys of an older envelope version are skipped.
			continue
		}
		out = append(out, Entry{Key: key, UpdatedAt: updatedAt})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list view states: %w", err)
	}
	return out, nil
}

func sortEntries(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Key.String(), b.Key.String())
	})
}
