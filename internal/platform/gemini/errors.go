package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrInvalidConfig is returned when the suggester cannot be built from its configuration.
	ErrInvalidConfig = errors.New("invalid gemini configuration")

	// ErrEmptySourceText is returned when there is no text to translate.
	ErrEmptySourceText = errors.New("source text cannot be empty")

	// ErrInvalidResponse is returned when the model response carries no usable text.
	ErrInvalidResponse = errors.New("invalid response from gemini")

	// ErrContentBlocked is returned when safety filters blocked the response.
	ErrContentBlocked = errors.New("content blocked by gemini safety filters")

	// ErrTransientFailure is returned when every retry attempt failed.
	ErrTransientFailure = errors.New("transient gemini failure")
)
