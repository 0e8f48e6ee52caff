package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/locale-api/internal/platform/logger"
	"github.com/phrazzld/locale-api/internal/redact"
)

// Envelope is the body of every API response.
type Envelope struct {
	Data      interface{} `json:"data"`
	IsSuccess bool        `json:"isSuccess"`
	Errors    []string    `json:"errors"`
	TraceID   string      `json:"traceId,omitempty"`
}

// ResponseOption defines a function to customize response behavior.
type ResponseOption func(*responseOptions)

// responseOptions holds configurable options for error responses.
type responseOptions struct {
	elevateLogLevel bool
}

// WithElevatedLogLevel returns a ResponseOption that raises 4xx errors to WARN level
// instead of the default DEBUG level. Use for operational issues such as
// repeated authentication failures.
func WithElevatedLogLevel() ResponseOption {
	return func(opts *responseOptions) {
		opts.elevateLogLevel = true
	}
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContextOrDefault(r.Context(), slog.Default()).
			Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithData wraps data in a successful envelope.
func RespondWithData(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	RespondWithJSON(w, r, status, Envelope{
		Data:      data,
		IsSuccess: true,
		Errors:    []string{},
		TraceID:   GetTraceID(r.Context()),
	})
}

// RespondWithError writes an error envelope with a single message.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	RespondWithErrors(w, r, status, []string{message})
}

// RespondWithErrors writes an error envelope carrying every message.
func RespondWithErrors(w http.ResponseWriter, r *http.Request, status int, messages []string) {
	traceID := GetTraceID(r.Context())

	logger.FromContextOrDefault(r.Context(), slog.Default()).Debug("sending error response",
		"status_code", status,
		"messages", messages,
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, Envelope{
		Data:      nil,
		IsSuccess: false,
		Errors:    messages,
		TraceID:   traceID,
	})
}

// RespondWithErrorAndLog writes an error envelope with a safe message and logs
// the redacted cause.
//
// Log level strategy:
// - 5xx errors: Always logged at ERROR level
// - 4xx errors: By default logged at DEBUG level, WARN with WithElevatedLogLevel
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
	opts ...ResponseOption,
) {
	RespondWithErrorsAndLog(w, r, status, []string{userMessage}, err, opts...)
}

// RespondWithErrorsAndLog is RespondWithErrorAndLog for several messages.
func RespondWithErrorsAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessages []string,
	err error,
	opts ...ResponseOption,
) {
	traceID := GetTraceID(r.Context())

	logAttrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.Any("user_messages", userMessages),
	}

	// The raw error only ever reaches the logs, and only redacted.
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	responseOpts := responseOptions{}
	for _, opt := range opts {
		opt(&responseOpts)
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	} else if responseOpts.elevateLogLevel && status >= http.StatusBadRequest {
		logLevel = slog.LevelWarn
	}

	log := logger.FromContextOrDefault(r.Context(), slog.Default())
	log.LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, Envelope{
		Data:      nil,
		IsSuccess: false,
		Errors:    userMessages,
		TraceID:   traceID,
	})
}
