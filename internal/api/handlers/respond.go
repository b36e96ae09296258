package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/caremap/medifinder/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// statusForError maps application error types to HTTP status codes.
func statusForError(err error) int {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeInvalidRequest, apperrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage extracts the user-facing message from an error without leaking
// internal state for non-application errors.
func errorMessage(err error, fallback string) string {
	if appErr, ok := err.(*apperrors.AppError); ok && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

// respondWithAppError maps an application error to its HTTP response.
func respondWithAppError(w http.ResponseWriter, err error, fallback string) {
	respondWithError(w, statusForError(err), errorMessage(err, fallback))
}
