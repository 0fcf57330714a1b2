// Package tables provides the table pages and the JSON table API.
package tables

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/fleetgrid/internal/server/notifier"
)

// SetupRoutes configures routes for the tables feature.
func SetupRoutes(
	router chi.Router,
	views *Views,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(views.catalog, views, sessionStore, notify, logger)

	router.Get("/", handlers.IndexPage)
	router.Get("/tables/{table}", handlers.TablePage)

	router.Route("/api", func(r chi.Router) {
		r.Get("/tables", handlers.ListTables)
		r.Get("/updates", handlers.Updates)

		r.Route("/tables/{table}", func(r chi.Router) {
			r.Get("/rows", handlers.Rows)
			r.Get("/columns", handlers.Columns)
			r.Post("/columns/all", handlers.ToggleAllColumns)
			r.Post("/columns/reset", handlers.ResetColumns)
			r.Post("/columns/{column}/toggle", handlers.ToggleColumn)
			r.Post("/columns/{column}/move", handlers.MoveColumn)
			r.Post("/filters", handlers.ApplyFilters)
			r.Post("/filters/reset", handlers.ResetFilters)
			r.Get("/selection", handlers.Selection)
			r.Post("/selection", handlers.UpdateSelection)
			r.Get("/export", handlers.Export)
		})
	})

	return nil
}
