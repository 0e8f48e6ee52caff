package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/locale-api/internal/api/shared"
	"github.com/phrazzld/locale-api/internal/domain"
	"github.com/phrazzld/locale-api/internal/service"
	"github.com/phrazzld/locale-api/internal/service/auth"
)

const genericErrorMessage = "An unexpected error occurred"

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict

	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrSuggestionsDisabled):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessages returns the client-facing messages for err.
// Not-found and conflict errors carry a message naming the SID; validation
// errors yield one message per invalid field. Anything else is reduced to
// a generic message.
func GetSafeErrorMessages(err error) []string {
	if err == nil {
		return []string{genericErrorMessage}
	}

	var fieldErrs domain.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs.Messages()
	}
	var fieldErr *domain.ValidationError
	if errors.As(err, &fieldErr) {
		return []string{fieldErr.Error()}
	}

	return []string{GetSafeErrorMessage(err)}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return genericErrorMessage
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrMissingToken):
		return "Authorization header required"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, service.ErrNotFound):
		return sentinelDetail(err, service.ErrNotFound, "Not found")

	case errors.Is(err, service.ErrConflict):
		return sentinelDetail(err, service.ErrConflict, "Conflict")

	case errors.Is(err, domain.ErrValidation):
		return "Validation error"

	case errors.Is(err, service.ErrSuggestionsDisabled):
		return "Translation suggestions are not enabled"

	default:
		return genericErrorMessage
	}
}

// sentinelDetail strips the "<sentinel>: " prefix the service adds, leaving
// the caller-facing detail such as "SID 'x' not found".
func sentinelDetail(err, sentinel error, fallback string) string {
	detail := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if detail == err.Error() || detail == "" {
		return fallback
	}
	return detail
}

// HandleAPIError writes the error envelope for err, logging the redacted
// cause. Unexpected errors are reported with defaultMsg when it is set.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	messages := GetSafeErrorMessages(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		messages = []string{defaultMsg}
	}
	shared.RespondWithErrorsAndLog(w, r, status, messages, err)
}
