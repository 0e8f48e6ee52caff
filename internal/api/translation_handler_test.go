package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/locale-api/internal/api"
	"github.com/phrazzld/locale-api/internal/api/middleware"
	"github.com/phrazzld/locale-api/internal/platform/sqlite"
	"github.com/phrazzld/locale-api/internal/service"
	"github.com/phrazzld/locale-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Data      json.RawMessage `json:"data"`
	IsSuccess bool            `json:"isSuccess"`
	Errors    []string        `json:"errors"`
	TraceID   string          `json:"traceId"`
}

// suggesterFunc adapts a function to service.TranslationSuggester.
type suggesterFunc func(ctx context.Context, text, langID string) (string, error)

func (f suggesterFunc) Suggest(ctx context.Context, text, langID string) (string, error) {
	return f(ctx, text, langID)
}

// newTestServer serves the translation routes over a fresh SQLite store.
func newTestServer(t *testing.T, suggester service.TranslationSuggester) *httptest.Server {
	t.Helper()

	db := testdb.NewSQLiteDB(t)
	svc, err := service.NewTranslationService(sqlite.NewStore(db, nil), suggester, nil)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware(nil))
	r.Mount("/api/v1/translations", api.NewTranslationHandler(svc, suggester != nil, nil).Routes())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

const welcomeBody = `{"sid":"welcome_message","text":"Welcome","translations":[{"langId":"de-DE","text":"Willkommen"}]}`

func TestTranslationHandler_Lifecycle(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil)
	base := "/api/v1/translations"

	status, env := do(t, srv, http.MethodPost, base, welcomeBody)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.IsSuccess)
	assert.Empty(t, env.Errors)
	assert.NotEmpty(t, env.TraceID)

	status, env = do(t, srv, http.MethodGet, base+"/welcome_message", "")
	require.Equal(t, http.StatusOK, status)
	var detail service.TextDetail
	decodeData(t, env, &detail)
	assert.Equal(t, service.TextDetail{
		SID:          "welcome_message",
		Text:         "Welcome",
		Translations: []service.TranslationView{{LangID: "de-DE", Text: "Willkommen"}},
	}, detail)

	status, env = do(t, srv, http.MethodGet, base+"/sids", "")
	require.Equal(t, http.StatusOK, status)
	var keys []string
	decodeData(t, env, &keys)
	assert.Equal(t, []string{"welcome_message"}, keys)

	status, env = do(t, srv, http.MethodPut, base+"/welcome_message/fr-FR", `{"text":"Bienvenue"}`)
	require.Equal(t, http.StatusOK, status)
	var view service.TranslationView
	decodeData(t, env, &view)
	assert.Equal(t, service.TranslationView{LangID: "fr-FR", Text: "Bienvenue"}, view)

	status, env = do(t, srv, http.MethodPut, base+"/welcome_message/source", `{"text":"Welcome!"}`)
	require.Equal(t, http.StatusOK, status)
	decodeData(t, env, &detail)
	assert.Equal(t, "Welcome!", detail.Text)
	assert.Len(t, detail.Translations, 2)

	status, _ = do(t, srv, http.MethodDelete, base+"/welcome_message/de-DE", "")
	require.Equal(t, http.StatusOK, status)

	status, env = do(t, srv, http.MethodDelete, base+"/welcome_message/de-DE", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.IsSuccess)
	assert.Equal(t, []string{"Translation for SID 'welcome_message' and language 'de-DE' not found"}, env.Errors)

	status, _ = do(t, srv, http.MethodDelete, base+"/welcome_message", "")
	require.Equal(t, http.StatusOK, status)

	status, env = do(t, srv, http.MethodGet, base+"/welcome_message", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, []string{"SID 'welcome_message' not found"}, env.Errors)
}

func TestTranslationHandler_CreateErrors(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil)
	base := "/api/v1/translations"

	status, _ := do(t, srv, http.MethodPost, base, welcomeBody)
	require.Equal(t, http.StatusOK, status)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantErrors []string
	}{
		{
			name:       "duplicate SID",
			body:       welcomeBody,
			wantStatus: http.StatusConflict,
			wantErrors: []string{"SID 'welcome_message' already exists"},
		},
		{
			name:       "malformed JSON",
			body:       `{"sid":`,
			wantStatus: http.StatusBadRequest,
			wantErrors: []string{"Invalid request format"},
		},
		{
			name:       "missing fields",
			body:       `{"translations":[]}`,
			wantStatus: http.StatusBadRequest,
			wantErrors: []string{"sid is required", "text is required"},
		},
		{
			name:       "duplicate language",
			body:       `{"sid":"k","text":"t","translations":[{"langId":"de-DE","text":"a"},{"langId":"de-DE","text":"b"}]}`,
			wantStatus: http.StatusBadRequest,
			wantErrors: []string{"translations[1].langId duplicates language 'de-DE'"},
		},
		{
			name:       "SID too long",
			body:       `{"sid":"` + strings.Repeat("s", 201) + `","text":"t"}`,
			wantStatus: http.StatusBadRequest,
			wantErrors: []string{"sid must be at most 200 characters"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, srv, http.MethodPost, base, tt.body)
			assert.Equal(t, tt.wantStatus, status)
			assert.False(t, env.IsSuccess)
			assert.Equal(t, tt.wantErrors, env.Errors)
		})
	}
}

func TestTranslationHandler_UpdateTranslationForUnknownSID(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil)

	status, env := do(t, srv, http.MethodPut, "/api/v1/translations/not_created_yet/de-DE", `{"text":"Noch nicht"}`)
	assert.Equal(t, http.StatusOK, status, "upserting a translation for an unknown SID succeeds")
	assert.True(t, env.IsSuccess)

	status, _ = do(t, srv, http.MethodGet, "/api/v1/translations/not_created_yet", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTranslationHandler_UpdateValidation(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil)

	status, env := do(t, srv, http.MethodPut, "/api/v1/translations/k/de-DE", `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []string{"text is required"}, env.Errors)

	status, env = do(t, srv, http.MethodPut, "/api/v1/translations/k/de-DE", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []string{"Invalid request format"}, env.Errors)

	status, env = do(t, srv, http.MethodPut, "/api/v1/translations/k/"+strings.Repeat("x", 11), `{"text":"t"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []string{"langId must be at most 10 characters"}, env.Errors)

	status, _ = do(t, srv, http.MethodPut, "/api/v1/translations/missing/source", `{"text":"t"}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTranslationHandler_ListWithLanguage(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil)
	base := "/api/v1/translations"

	status, _ := do(t, srv, http.MethodPost, base, welcomeBody)
	require.Equal(t, http.StatusOK, status)
	status, _ = do(t, srv, http.MethodPost, base, `{"sid":"goodbye_message","text":"Goodbye"}`)
	require.Equal(t, http.StatusOK, status)

	tests := []struct {
		name  string
		query string
		want  []service.LanguageRow
	}{
		{
			name:  "default language",
			query: "",
			want: []service.LanguageRow{
				{SID: "goodbye_message", Text: "Goodbye"},
				{SID: "welcome_message", Text: "Welcome"},
			},
		},
		{
			name:  "explicit en-US",
			query: "?langId=en-US",
			want: []service.LanguageRow{
				{SID: "goodbye_message", Text: "Goodbye"},
				{SID: "welcome_message", Text: "Welcome"},
			},
		},
		{
			name:  "translated language",
			query: "?langId=de-DE",
			want:  []service.LanguageRow{{SID: "welcome_message", Text: "Willkommen"}},
		},
		{name: "unknown language", query: "?langId=fr-FR", want: []service.LanguageRow{}},
		{name: "underscore form", query: "?langId=en_US", want: []service.LanguageRow{}},
		{name: "empty code", query: "?langId=", want: []service.LanguageRow{}},
		{name: "case differs", query: "?langId=de-de", want: []service.LanguageRow{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, srv, http.MethodGet, base+tt.query, "")
			require.Equal(t, http.StatusOK, status)
			assert.JSONEq(t, mustJSON(t, tt.want), string(env.Data))
		})
	}
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestTranslationHandler_Suggest(t *testing.T) {
	t.Parallel()

	t.Run("route absent without suggester", func(t *testing.T) {
		srv := newTestServer(t, nil)
		resp, err := srv.Client().Post(srv.URL+"/api/v1/translations/k/de-DE/suggest", "application/json", nil)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("returns suggestion without storing it", func(t *testing.T) {
		var gotText, gotLang string
		srv := newTestServer(t, suggesterFunc(func(_ context.Context, text, langID string) (string, error) {
			gotText, gotLang = text, langID
			return "Willkommen", nil
		}))
		base := "/api/v1/translations"
		status, _ := do(t, srv, http.MethodPost, base, `{"sid":"welcome_message","text":"Welcome"}`)
		require.Equal(t, http.StatusOK, status)

		status, env := do(t, srv, http.MethodPost, base+"/welcome_message/de-DE/suggest", "")
		require.Equal(t, http.StatusOK, status)
		var view service.TranslationView
		decodeData(t, env, &view)
		assert.Equal(t, service.TranslationView{LangID: "de-DE", Text: "Willkommen"}, view)
		assert.Equal(t, "Welcome", gotText)
		assert.Equal(t, "de-DE", gotLang)

		status, env = do(t, srv, http.MethodGet, base+"?langId=de-DE", "")
		require.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `[]`, string(env.Data))

		status, _ = do(t, srv, http.MethodPost, base+"/missing/de-DE/suggest", "")
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("suggester failure is hidden", func(t *testing.T) {
		srv := newTestServer(t, suggesterFunc(func(context.Context, string, string) (string, error) {
			return "", errors.New("upstream 503 from generativelanguage.googleapis.com")
		}))
		base := "/api/v1/translations"
		status, _ := do(t, srv, http.MethodPost, base, `{"sid":"k","text":"Hello"}`)
		require.Equal(t, http.StatusOK, status)

		status, env := do(t, srv, http.MethodPost, base+"/k/de-DE/suggest", "")
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, []string{"Failed to suggest translation"}, env.Errors)
	})
}
