// Package service contains the application-specific use cases for managing
// localization strings. It orchestrates the domain entities and the
// store.TranslationStore to fulfill the operations exposed over HTTP and the
// command line.
//
// Service methods return sentinel errors (ErrNotFound, ErrConflict, and
// domain.ErrValidation) for expected outcomes. Unexpected failures are
// wrapped in *TranslationServiceError. Callers use errors.Is/errors.As to
// check for specific conditions, and the API layer maps them to HTTP status
// codes.
//
// The service depends on domain entities and the store interface, never on a
// specific database implementation.
package service
