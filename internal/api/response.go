package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mlakar/zaloga/internal/apperror"
)

// envelope is the response shape for all API endpoints.
type envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// jsonResponse writes an envelope with the given status code.
func jsonResponse(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Message: message, Data: data}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// jsonError maps an error to an envelope response. Application errors
// keep their message and status; anything else is logged and reported
// as a generic 500 so storage detail does not leak to callers.
func jsonError(w http.ResponseWriter, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) && appErr.Kind != apperror.Storage {
		jsonResponse(w, appErr.StatusCode(), appErr.Message, nil)
		return
	}
	slog.Error("request failed", "error", err)
	jsonResponse(w, http.StatusInternalServerError, "internal error", nil)
}
