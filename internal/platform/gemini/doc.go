// Package gemini drafts translations with Google's Gemini models.
//
// The Suggester sends the canonical text and the target language code to the
// configured model and returns the model's translation as plain text. Nothing
// is stored: callers decide whether to keep a suggestion.
//
// Transient API failures are retried with exponential backoff and jitter.
// Responses that were blocked by safety filters, or that carry no text,
// fail immediately with ErrContentBlocked or ErrInvalidResponse.
package gemini
