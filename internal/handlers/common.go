package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gearshare-backend/internal/repository"
	"gearshare-backend/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// statusFromError maps service errors to HTTP status codes; anything
// unrecognized is a 500 and its detail stays in the logs.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, services.ErrResourceUnavailable):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNotOwner),
		errors.Is(err, services.ErrOwnBooking),
		errors.Is(err, services.ErrNotParticipant):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrUnknownCategory),
		errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondServiceError maps a service error to a status code, hiding
// internals behind a generic message for 500s.
func respondServiceError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	respondError(w, message, status)
}
