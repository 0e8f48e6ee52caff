package service

import (
	"context"
	"errors"
	"log/slog"
	"unicode/utf8"

	"github.com/phrazzld/locale-api/internal/domain"
	"github.com/phrazzld/locale-api/internal/platform/logger"
	"github.com/phrazzld/locale-api/internal/store"
)

// TranslationSuggester drafts a translation of text into the language langID.
type TranslationSuggester interface {
	Suggest(ctx context.Context, text, langID string) (string, error)
}

// TranslationService provides the operations on source texts and translations.
type TranslationService interface {
	// ListKeys returns every SID. The result is never nil.
	ListKeys(ctx context.Context) ([]string, error)

	// GetByKey returns a source text with all of its translations.
	GetByKey(ctx context.Context, sid string) (*TextDetail, error)

	// CreateSourceText creates a source text with optional initial translations.
	CreateSourceText(ctx context.Context, detail TextDetail) (*TextDetail, error)

	// UpdateTranslation inserts or overwrites the translation for (sid, langID).
	// It succeeds even when no source text exists for sid.
	UpdateTranslation(ctx context.Context, sid, langID, text string) (*TranslationView, error)

	// UpdateSourceText replaces the canonical text of an existing source text.
	UpdateSourceText(ctx context.Context, sid, text string) (*TextDetail, error)

	// DeleteTranslation removes one translation.
	DeleteTranslation(ctx context.Context, sid, langID string) error

	// DeleteSourceText removes a source text together with its translations.
	DeleteSourceText(ctx context.Context, sid string) error

	// ListWithLanguage returns one row per source text in the given language.
	// For the default language every source text is returned with its
	// canonical text. Any other code returns only source texts with an exact,
	// case-sensitive translation match; no fallback is applied.
	ListWithLanguage(ctx context.Context, langID string) ([]LanguageRow, error)

	// SuggestTranslation drafts a translation of a source text without storing it.
	SuggestTranslation(ctx context.Context, sid, langID string) (*TranslationView, error)
}

// translationServiceImpl implements the TranslationService interface
type translationServiceImpl struct {
	store     store.TranslationStore
	suggester TranslationSuggester
	logger    *slog.Logger
}

// NewTranslationService creates a new TranslationService.
// suggester may be nil, in which case SuggestTranslation returns ErrSuggestionsDisabled.
// It returns an error if the store is nil.
func NewTranslationService(
	translationStore store.TranslationStore,
	suggester TranslationSuggester,
	logger *slog.Logger,
) (TranslationService, error) {
	if translationStore == nil {
		return nil, &TranslationServiceError{
			Operation: "create_service",
			Message:   "translationStore cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &translationServiceImpl{
		store:     translationStore,
		suggester: suggester,
		logger:    logger.With(slog.String("component", "translation_service")),
	}, nil
}

// ListKeys implements TranslationService.ListKeys
func (s *translationServiceImpl) ListKeys(ctx context.Context) ([]string, error) {
	keys, err := s.store.ListKeys(ctx)
	if err != nil {
		s.log(ctx).Error("failed to list keys", slog.String("error", err.Error()))
		return nil, NewTranslationServiceError("list_keys", "failed to list keys", err)
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}

// GetByKey implements TranslationService.GetByKey
func (s *translationServiceImpl) GetByKey(ctx context.Context, sid string) (*TextDetail, error) {
	if !utf8.ValidString(sid) {
		return nil, sourceTextNotFound(sid)
	}

	st, err := s.store.GetByKey(ctx, sid)
	if err != nil {
		if !store.IsNotFoundError(err) {
			s.log(ctx).Error("failed to get source text",
				slog.String("sid", sid),
				slog.String("error", err.Error()))
		}
		return nil, mapStoreError("get_by_key", "failed to get source text", err, sid, "")
	}
	return toTextDetail(st), nil
}

// CreateSourceText implements TranslationService.CreateSourceText
func (s *translationServiceImpl) CreateSourceText(
	ctx context.Context,
	detail TextDetail,
) (*TextDetail, error) {
	log := s.log(ctx)

	st, err := domain.NewSourceText(detail.SID, detail.Text, detail.toDomain())
	if err != nil {
		log.Debug("invalid source text", slog.String("sid", detail.SID), slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.store.CreateSourceText(ctx, st); err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("source text already exists", slog.String("sid", st.SID))
		} else {
			log.Error("failed to create source text",
				slog.String("sid", st.SID),
				slog.String("error", err.Error()))
		}
		return nil, mapStoreError("create_source_text", "failed to create source text", err, st.SID, "")
	}

	log.Info("source text created",
		slog.String("sid", st.SID),
		slog.Int("translation_count", len(st.Translations)))
	return toTextDetail(st), nil
}

// UpdateTranslation implements TranslationService.UpdateTranslation
func (s *translationServiceImpl) UpdateTranslation(
	ctx context.Context,
	sid, langID, text string,
) (*TranslationView, error) {
	log := s.log(ctx)

	if _, err := domain.NewTranslation(sid, langID, text); err != nil {
		return nil, err
	}
	if !domain.IsWellFormedLanguageTag(langID) {
		log.Warn("language code is not a well-formed BCP 47 tag",
			slog.String("lang_id", langID))
	}

	written, err := s.store.UpsertTranslation(ctx, sid, langID, text)
	if err != nil {
		log.Error("failed to upsert translation",
			slog.String("sid", sid),
			slog.String("lang_id", langID),
			slog.String("error", err.Error()))
		return nil, mapStoreError("update_translation", "failed to save translation", err, sid, langID)
	}

	view := toTranslationView(*written)
	return &view, nil
}

// UpdateSourceText implements TranslationService.UpdateSourceText
func (s *translationServiceImpl) UpdateSourceText(
	ctx context.Context,
	sid, text string,
) (*TextDetail, error) {
	if err := domain.ValidateText("text", text); err != nil {
		return nil, domain.ValidationErrors{err}
	}
	if !utf8.ValidString(sid) {
		return nil, sourceTextNotFound(sid)
	}

	st, err := s.store.UpdateSourceText(ctx, sid, text)
	if err != nil {
		if !store.IsNotFoundError(err) {
			s.log(ctx).Error("failed to update source text",
				slog.String("sid", sid),
				slog.String("error", err.Error()))
		}
		return nil, mapStoreError("update_source_text", "failed to update source text", err, sid, "")
	}
	return toTextDetail(st), nil
}

// DeleteTranslation implements TranslationService.DeleteTranslation
func (s *translationServiceImpl) DeleteTranslation(ctx context.Context, sid, langID string) error {
	if !utf8.ValidString(sid) || !utf8.ValidString(langID) {
		return translationNotFound(sid, langID)
	}
	if err := s.store.DeleteTranslation(ctx, sid, langID); err != nil {
		if !store.IsNotFoundError(err) {
			s.log(ctx).Error("failed to delete translation",
				slog.String("sid", sid),
				slog.String("lang_id", langID),
				slog.String("error", err.Error()))
			return NewTranslationServiceError("delete_translation", "failed to delete translation", err)
		}
		return translationNotFound(sid, langID)
	}
	return nil
}

// DeleteSourceText implements TranslationService.DeleteSourceText
func (s *translationServiceImpl) DeleteSourceText(ctx context.Context, sid string) error {
	if !utf8.ValidString(sid) {
		return sourceTextNotFound(sid)
	}
	if err := s.store.DeleteSourceText(ctx, sid); err != nil {
		if !store.IsNotFoundError(err) {
			s.log(ctx).Error("failed to delete source text",
				slog.String("sid", sid),
				slog.String("error", err.Error()))
		}
		return mapStoreError("delete_source_text", "failed to delete source text", err, sid, "")
	}

	s.log(ctx).Info("source text deleted", slog.String("sid", sid))
	return nil
}

// ListWithLanguage implements TranslationService.ListWithLanguage
func (s *translationServiceImpl) ListWithLanguage(
	ctx context.Context,
	langID string,
) ([]LanguageRow, error) {
	log := s.log(ctx)

	rows := make([]LanguageRow, 0)
	// Stored codes are valid UTF-8, so nothing can match.
	if langID == "" || !utf8.ValidString(langID) {
		return rows, nil
	}
	if langID != domain.DefaultLanguage && !domain.IsWellFormedLanguageTag(langID) {
		log.Warn("listing with a language code that is not a well-formed BCP 47 tag",
			slog.String("lang_id", langID))
	}

	texts, err := s.store.ListAll(ctx)
	if err != nil {
		log.Error("failed to list source texts",
			slog.String("lang_id", langID),
			slog.String("error", err.Error()))
		return nil, NewTranslationServiceError("list_with_language", "failed to list source texts", err)
	}

	for _, st := range texts {
		if langID == domain.DefaultLanguage {
			rows = append(rows, LanguageRow{SID: st.SID, Text: st.Text})
			continue
		}
		if t, ok := st.TranslationFor(langID); ok {
			rows = append(rows, LanguageRow{SID: st.SID, Text: t.TranslatedText})
		}
	}
	return rows, nil
}

// SuggestTranslation implements TranslationService.SuggestTranslation
func (s *translationServiceImpl) SuggestTranslation(
	ctx context.Context,
	sid, langID string,
) (*TranslationView, error) {
	if s.suggester == nil {
		return nil, ErrSuggestionsDisabled
	}
	if err := domain.ValidateLangID(langID); err != nil {
		return nil, domain.ValidationErrors{err}
	}
	if !utf8.ValidString(sid) {
		return nil, sourceTextNotFound(sid)
	}

	st, err := s.store.GetByKey(ctx, sid)
	if err != nil {
		return nil, mapStoreError("suggest_translation", "failed to get source text", err, sid, "")
	}

	text, err := s.suggester.Suggest(ctx, st.Text, langID)
	if err != nil {
		s.log(ctx).Warn("translation suggestion failed",
			slog.String("sid", sid),
			slog.String("lang_id", langID),
			slog.String("error", err.Error()))
		return nil, NewTranslationServiceError("suggest_translation", "failed to suggest translation", err)
	}
	if text == "" {
		return nil, NewTranslationServiceError(
			"suggest_translation",
			"empty suggestion",
			errors.New("suggester returned no text"),
		)
	}

	return &TranslationView{LangID: langID, Text: text}, nil
}

func (s *translationServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}
