package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	domain "github.com/example/homeboard/internal/domain/alarm"
	"github.com/example/homeboard/internal/logger"
	"github.com/example/homeboard/internal/repository/alarms"
)

// errorResponse is the JSON body for failed requests.
type errorResponse struct {
	// Message is a human-readable description of the failure.
	Message string `json:"message"`
}

// writeJSON encodes the payload with the given status.
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)

		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.ErrorKV(ctx, "Failed to encode response", "error", err)
	}
}

// writeError maps a failure onto a status code and a JSON error body.
func writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := http.StatusText(status)
	if err != nil {
		message = err.Error()

		logger.WarnKV(ctx, "Request failed", "status", status, "error", err)
	}

	writeJSON(ctx, w, status, errorResponse{Message: message})
}

// writeServiceError classifies scheduler/persistence failures: invalid
// definitions are the caller's fault, a missing id maps to not-found, and
// anything else means the persistence collaborator misbehaved.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case isValidationError(err):
		writeError(ctx, w, http.StatusBadRequest, err)
	case errors.Is(err, alarms.ErrNotFound):
		writeError(ctx, w, http.StatusNotFound, err)
	default:
		writeError(ctx, w, http.StatusBadGateway, err)
	}
}

// isValidationError reports whether the error is a form-boundary rejection.
func isValidationError(err error) bool {
	for _, sentinel := range []error{
		domain.ErrTitleRequired,
		domain.ErrRepeatDaysRequired,
		domain.ErrUnknownRepeatType,
		domain.ErrBadTimeOfDay,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}

	return false
}
