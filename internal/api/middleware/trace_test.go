package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/locale-api/internal/api/shared"
	"github.com/phrazzld/locale-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var traceID string
	handler := TraceMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/translations", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotEmpty(t, traceID)
	assert.Contains(t, buf.String(), `"msg":"request started"`)
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte(`"trace_id":"`+traceID+`"`)),
		"request log and handler log both carry the trace ID")
}

func TestTraceMiddleware_NewIDPerRequest(t *testing.T) {
	t.Parallel()

	var ids []string
	handler := TraceMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, shared.GetTraceID(r.Context()))
	}))

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
}
