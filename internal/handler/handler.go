package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"orderdesk/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// writeDomainError maps a service error onto the HTTP error taxonomy:
// validation failures are 400s with the domain message, missing resources
// are 404s, and anything unexpected collapses to a generic 500.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).Msg("internal error")
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: "internal server error"})
		return
	}

	status := http.StatusBadRequest
	switch domainErr.Code {
	case model.ErrCodeBadCredentials:
		status = http.StatusUnauthorized
	case model.ErrCodeOrderNotFound:
		status = http.StatusNotFound
	}

	writeError(w, status, domainErr.Message, logger)
}
