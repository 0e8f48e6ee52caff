// Package logger provides structured logging for the application using
// log/slog. Setup builds the process logger from configuration; the context
// helpers carry a request-scoped logger (with trace ID) through the service
// and store layers without any package-level state beyond slog's default.
package logger
