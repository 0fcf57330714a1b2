package state

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

var errNotOpened = errors.New("state database not opened")

// newMigrator returns a goose provider over the embedded view_states
// migrations. Providers carry no global state, so stores in parallel tests
// do not race on goose settings.
func newMigrator(db *sql.DB) (*goose.Provider, error) {
	if db == nil {
		return nil, errNotOpened
	}
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	p, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return p, nil
}

// Migrate applies pending view_states migrations.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	p, err := newMigrator(s.db)
	if err != nil {
		return err
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// SchemaVersion returns the version of the last applied migration, 0 for a
// fresh database.
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int64, error) {
	p, err := newMigrator(s.db)
	if err != nil {
		return 0, err
	}
	return p.GetDBVersion(ctx)
}
