package service

import "github.com/phrazzld/locale-api/internal/domain"

// TranslationView is the external shape of one translation.
type TranslationView struct {
	LangID string `json:"langId"`
	Text   string `json:"text"`
}

// TextDetail is the external shape of a source text with its translations.
type TextDetail struct {
	SID          string            `json:"sid"`
	Text         string            `json:"text"`
	Translations []TranslationView `json:"translations"`
}

// LanguageRow pairs a SID with its text in one language.
type LanguageRow struct {
	SID  string `json:"sid"`
	Text string `json:"text"`
}

func toTranslationView(t domain.Translation) TranslationView {
	return TranslationView{LangID: t.LangID, Text: t.TranslatedText}
}

func toTextDetail(st *domain.SourceText) *TextDetail {
	detail := &TextDetail{
		SID:          st.SID,
		Text:         st.Text,
		Translations: make([]TranslationView, 0, len(st.Translations)),
	}
	for _, t := range st.Translations {
		detail.Translations = append(detail.Translations, toTranslationView(t))
	}
	return detail
}

func (d TextDetail) toDomain() []domain.Translation {
	translations := make([]domain.Translation, 0, len(d.Translations))
	for _, t := range d.Translations {
		translations = append(translations, domain.Translation{
			LangID:         t.LangID,
			TranslatedText: t.Text,
		})
	}
	return translations
}
