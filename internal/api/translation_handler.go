package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/locale-api/internal/api/shared"
	"github.com/phrazzld/locale-api/internal/domain"
	"github.com/phrazzld/locale-api/internal/platform/logger"
	"github.com/phrazzld/locale-api/internal/service"
)

// Path and query parameter names.
const (
	paramSID    = "sid"
	paramLangID = "langId"
)

// TranslationHandler serves the translation endpoints.
type TranslationHandler struct {
	service            service.TranslationService
	suggestionsEnabled bool
	logger             *slog.Logger
}

// NewTranslationHandler creates a new TranslationHandler.
// The suggest route is only mounted when suggestionsEnabled is true.
func NewTranslationHandler(
	translationService service.TranslationService,
	suggestionsEnabled bool,
	logger *slog.Logger,
) *TranslationHandler {
	if translationService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("translationService cannot be nil for TranslationHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TranslationHandler{
		service:            translationService,
		suggestionsEnabled: suggestionsEnabled,
		logger:             logger.With(slog.String("component", "translation_handler")),
	}
}

// Routes returns the translation routes, to be mounted under
// /api/v1/translations.
func (h *TranslationHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListWithLanguage)
	r.Post("/", h.CreateSourceText)
	r.Get("/sids", h.ListKeys)

	r.Route("/{sid}", func(r chi.Router) {
		r.Get("/", h.GetByKey)
		r.Delete("/", h.DeleteSourceText)
		r.Put("/source", h.UpdateSourceText)
		r.Put("/{langId}", h.UpdateTranslation)
		r.Delete("/{langId}", h.DeleteTranslation)
		if h.suggestionsEnabled {
			r.Post("/{langId}/suggest", h.SuggestTranslation)
		}
	})

	return r
}

// ListKeys handles GET /sids.
func (h *TranslationHandler) ListKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.service.ListKeys(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list keys")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, keys)
}

// GetByKey handles GET /{sid}.
func (h *TranslationHandler) GetByKey(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetByKey(r.Context(), chi.URLParam(r, paramSID))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get source text")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, detail)
}

// CreateSourceText handles POST /.
func (h *TranslationHandler) CreateSourceText(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateSourceTextRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	detail, err := h.service.CreateSourceText(r.Context(), req.toDetail())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create source text")
		return
	}

	log.Debug("source text created via API", slog.String("sid", detail.SID))
	shared.RespondWithData(w, r, http.StatusOK, detail)
}

// UpdateSourceText handles PUT /{sid}/source.
func (h *TranslationHandler) UpdateSourceText(w http.ResponseWriter, r *http.Request) {
	var req UpdateTextRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	detail, err := h.service.UpdateSourceText(r.Context(), chi.URLParam(r, paramSID), req.Text)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update source text")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, detail)
}

// UpdateTranslation handles PUT /{sid}/{langId}.
func (h *TranslationHandler) UpdateTranslation(w http.ResponseWriter, r *http.Request) {
	var req UpdateTextRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	view, err := h.service.UpdateTranslation(
		r.Context(),
		chi.URLParam(r, paramSID),
		chi.URLParam(r, paramLangID),
		req.Text,
	)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save translation")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, view)
}

// DeleteTranslation handles DELETE /{sid}/{langId}.
func (h *TranslationHandler) DeleteTranslation(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteTranslation(r.Context(), chi.URLParam(r, paramSID), chi.URLParam(r, paramLangID))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete translation")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, nil)
}

// DeleteSourceText handles DELETE /{sid}.
func (h *TranslationHandler) DeleteSourceText(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSourceText(r.Context(), chi.URLParam(r, paramSID)); err != nil {
		HandleAPIError(w, r, err, "Failed to delete source text")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, nil)
}

// ListWithLanguage handles GET /?langId=. A missing langId lists the
// canonical texts; an explicitly empty one yields an empty list.
func (h *TranslationHandler) ListWithLanguage(w http.ResponseWriter, r *http.Request) {
	langID := domain.DefaultLanguage
	if values, ok := r.URL.Query()[paramLangID]; ok {
		langID = values[0]
	}

	rows, err := h.service.ListWithLanguage(r.Context(), langID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list translations")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, rows)
}

// SuggestTranslation handles POST /{sid}/{langId}/suggest. The suggestion
// is returned but not stored.
func (h *TranslationHandler) SuggestTranslation(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.SuggestTranslation(r.Context(), chi.URLParam(r, paramSID), chi.URLParam(r, paramLangID))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to suggest translation")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, view)
}

// decodeAndValidate reads the JSON body into req and checks its tags,
// writing a 400 response and returning false on failure.
func (h *TranslationHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorsAndLog(w, r, http.StatusBadRequest, shared.ValidationMessages(err), err)
		return false
	}
	return true
}
