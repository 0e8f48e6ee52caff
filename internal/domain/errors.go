// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// ValidationError and ValidationErrors both match it under errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrTooLong is returned when a value exceeds its maximum length.
	ErrTooLong = errors.New("value too long")

	// ErrInvalidEncoding is returned when a value is not valid UTF-8.
	ErrInvalidEncoding = errors.New("invalid UTF-8")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for field. err may be nil.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped cause so errors.Is can match e.g. ErrTooLong.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports a match against ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ValidationErrors collects every invalid field of an input.
type ValidationErrors []*ValidationError

// Error joins the individual messages.
func (v ValidationErrors) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(v.Messages(), "; "))
}

// Is reports a match against ErrValidation.
func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(v))
	for _, e := range v {
		errs = append(errs, e)
	}
	return errs
}

// Messages returns one human-readable message per invalid field.
func (v ValidationErrors) Messages() []string {
	messages := make([]string, 0, len(v))
	for _, e := range v {
		messages = append(messages, e.Error())
	}
	return messages
}

// OrNil returns nil when no errors were collected, so callers can write
// `return errs.OrNil()` without returning a typed nil.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
