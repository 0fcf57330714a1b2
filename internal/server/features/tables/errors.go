package tables

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/leapstack-labs/fleetgrid/internal/fleet"
	"github.com/leapstack-labs/fleetgrid/internal/source"
	"github.com/leapstack-labs/fleetgrid/pkg/grid"
)

// inputError marks errors caused by request parameters.
type inputError struct{ err error }

func (e *inputError) Error() string { return e.err.Error() }
func (e *inputError) Unwrap() error { return e.err }

func badRequest(err error) error {
	if err == nil {
		return nil
	}
	return &inputError{err: err}
}

// statusOf maps an error to the HTTP status reported to the client.
func statusOf(err error) int {
	var (
		inErr     *inputError
		statusErr *source.StatusError
	)
	switch {
	case errors.Is(err, fleet.ErrUnknownTable):
		return http.StatusNotFound
	case errors.As(err, &inErr),
		errors.Is(err, grid.ErrUnknownColumn),
		errors.Is(err, fleet.ErrUnknownFilter),
		errors.Is(err, grid.ErrInvalidKey):
		return http.StatusBadRequest
	case errors.Is(err, source.ErrStale):
		return http.StatusConflict
	case errors.As(err, &statusErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		h.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, Problem{Status: status, Error: err.Error()})
}
