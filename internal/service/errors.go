package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/locale-api/internal/domain"
	"github.com/phrazzld/locale-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Service methods wrap them with a caller-facing message, e.g.
// fmt.Errorf("%w: SID 'x' not found", ErrNotFound).
var (
	// ErrNotFound indicates that the requested source text or translation does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates that a source text with the same SID already exists.
	// API layer should map this to HTTP 409 Conflict.
	ErrConflict = errors.New("conflict")

	// ErrSuggestionsDisabled indicates that no translation suggester is configured.
	ErrSuggestionsDisabled = errors.New("translation suggestions are not enabled")
)

// TranslationServiceError wraps unexpected errors from the translation service with context.
type TranslationServiceError struct {
	// Operation is the operation that failed (e.g., "create_source_text")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TranslationServiceError.
func (e *TranslationServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("translation service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("translation service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TranslationServiceError) Unwrap() error {
	return e.Err
}

// NewTranslationServiceError creates a new TranslationServiceError.
// Validation errors and service sentinels are returned unchanged.
func NewTranslationServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) {
		return err
	}

	return &TranslationServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

func sourceTextNotFound(sid string) error {
	return fmt.Errorf("%w: SID '%s' not found", ErrNotFound, sid)
}

func sourceTextExists(sid string) error {
	return fmt.Errorf("%w: SID '%s' already exists", ErrConflict, sid)
}

func translationNotFound(sid, langID string) error {
	return fmt.Errorf(
		"%w: Translation for SID '%s' and language '%s' not found",
		ErrNotFound,
		sid,
		langID,
	)
}

// mapStoreError converts store sentinels into service errors carrying the
// caller-facing message, and wraps everything else.
func mapStoreError(operation, message string, err error, sid, langID string) error {
	switch {
	case errors.Is(err, store.ErrTranslationNotFound):
		return translationNotFound(sid, langID)
	case errors.Is(err, store.ErrNotFound):
		return sourceTextNotFound(sid)
	case errors.Is(err, store.ErrDuplicate):
		return sourceTextExists(sid)
	default:
		return NewTranslationServiceError(operation, message, err)
	}
}
