package api

import "github.com/phrazzld/locale-api/internal/service"

// TranslationRequest is one translation in a create request.
type TranslationRequest struct {
	LangID string `json:"langId" validate:"required"`
	Text   string `json:"text"   validate:"required"`
}

// CreateSourceTextRequest defines the payload for creating a source text.
type CreateSourceTextRequest struct {
	SID          string               `json:"sid"          validate:"required"`
	Text         string               `json:"text"         validate:"required"`
	Translations []TranslationRequest `json:"translations" validate:"dive"`
}

// UpdateTextRequest defines the payload for replacing a source text or a
// translation.
type UpdateTextRequest struct {
	Text string `json:"text" validate:"required"`
}

func (req CreateSourceTextRequest) toDetail() service.TextDetail {
	detail := service.TextDetail{
		SID:          req.SID,
		Text:         req.Text,
		Translations: make([]service.TranslationView, 0, len(req.Translations)),
	}
	for _, t := range req.Translations {
		detail.Translations = append(detail.Translations, service.TranslationView{
			LangID: t.LangID,
			Text:   t.Text,
		})
	}
	return detail
}
