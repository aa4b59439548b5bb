package api

import (
	"errors"
	"net/http"

	"github.com/paperiq/paperiq-api/internal/analyzer"
	"github.com/paperiq/paperiq-api/internal/api/shared"
	"github.com/paperiq/paperiq-api/internal/domain"
	"github.com/paperiq/paperiq-api/internal/platform/filedoc"
	"github.com/paperiq/paperiq-api/internal/service/auth"
	"github.com/paperiq/paperiq-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors. Unknown username and wrong password map to
	// the same status so responses cannot be used to enumerate accounts.
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrEntryNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrUsernameExists),
		errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest

	// Contention and upstream availability
	case errors.Is(err, filedoc.ErrLockTimeout):
		return http.StatusServiceUnavailable

	case errors.Is(err, analyzer.ErrEngineUnavailable):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Both failure modes present identically; the distinction stays in the
	// logs for diagnostics.
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, store.ErrEntryNotFound):
		return "History entry not found"

	case errors.Is(err, store.ErrUsernameExists):
		return "Username already exists"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already registered"

	// Validation messages name the broken rule and are written for users.
	case errors.Is(err, domain.ErrValidation):
		return err.Error()

	case errors.Is(err, filedoc.ErrLockTimeout):
		return "Server busy, please try again"

	case errors.Is(err, analyzer.ErrEngineUnavailable):
		return "Analysis engine unavailable"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps err to a status code and safe message and writes the
// response, logging the underlying error. An empty fallbackMessage uses the
// mapped safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallbackMessage != "" {
		message = fallbackMessage
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
