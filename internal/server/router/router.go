// Package router sets up HTTP routes for the server.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	tablesFeature "github.com/leapstack-labs/fleetgrid/internal/server/features/tables"
	"github.com/leapstack-labs/fleetgrid/internal/server/notifier"
	"github.com/leapstack-labs/fleetgrid/internal/server/resources"
)

// SetupRoutes configures all routes for the server.
func SetupRoutes(
	router chi.Router,
	views *tablesFeature.Views,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
) error {
	router.Handle("/static/*", resources.Handler())

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return tablesFeature.SetupRoutes(router, views, sessionStore, notify, logger)
}
