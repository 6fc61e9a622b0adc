package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tripfolio/tripfolio/internal/apperr"
)

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps error kinds onto HTTP statuses. Internal detail stays
// out of 500 responses.
func writeError(w http.ResponseWriter, err error) {
	var status int
	message := apperr.Message(err)

	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindInvalid:
		status = http.StatusBadRequest
	case apperr.KindForbidden:
		status = http.StatusForbidden
	case apperr.KindConflict:
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
		message = "internal server error"
		slog.Error("Internal error", "error", err)
	}

	writeJSON(w, status, errorResponse{Status: "error", Message: message})
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Invalid("invalid JSON body: %v", err)
	}
	return nil
}
