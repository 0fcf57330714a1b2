// Package features provides shared test utilities for server feature tests.
package features

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/fleetgrid/internal/dataset"
	"github.com/leapstack-labs/fleetgrid/internal/fleet"
	"github.com/leapstack-labs/fleetgrid/internal/server/notifier"
	"github.com/leapstack-labs/fleetgrid/internal/state"
)

// TestFixture holds all dependencies needed for handler tests.
type TestFixture struct {
	Catalog      *fleet.Catalog
	Memory       *dataset.Memory
	Store        *state.MemoryStore
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
	// DataPath is a writable copy of the sample dataset.
	DataPath string
}

// SetupTestFixture loads a copy of the sample dataset into memory sources
// and builds the catalog over them.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	data, err := os.ReadFile(SampleDatasetPath(t))
	require.NoError(t, err)
	dataPath := filepath.Join(t.TempDir(), "fleet.yaml")
	require.NoError(t, os.WriteFile(dataPath, data, 0600))

	ds, err := dataset.Load(dataPath)
	require.NoError(t, err)
	mem := dataset.NewMemory(ds)

	catalog, err := fleet.NewFleetCatalog(mem.Sources())
	require.NoError(t, err)

	return &TestFixture{
		Catalog:      catalog,
		Memory:       mem,
		Store:        state.NewMemoryStore(),
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(),
		DataPath:     dataPath,
	}
}

// SampleDatasetPath returns the path of the dataset package's sample file.
func SampleDatasetPath(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "cannot locate test utilities")
	return filepath.Join(filepath.Dir(filename), "..", "..", "dataset", "testdata", "fleet.yaml")
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}
