package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/locale-api/internal/service"
)

// demoTexts are inserted by the -seed flag.
var demoTexts = []service.TextDetail{
	{
		SID:  "welcome_message",
		Text: "Welcome to Jedox Translator",
		Translations: []service.TranslationView{
			{LangID: "de-DE", Text: "Willkommen bei Jedox Translator"},
		},
	},
	{
		SID:  "goodbye_message",
		Text: "Goodbye",
		Translations: []service.TranslationView{
			{LangID: "de-DE", Text: "Auf Wiedersehen"},
		},
	},
}

// seedDemoData creates the demo source texts. Texts that already exist are
// left untouched, so seeding is safe to repeat.
func seedDemoData(ctx context.Context, svc service.TranslationService, logger *slog.Logger) error {
	created := 0
	for _, detail := range demoTexts {
		_, err := svc.CreateSourceText(ctx, detail)
		switch {
		case err == nil:
			created++
		case errors.Is(err, service.ErrConflict):
			logger.Debug("demo source text already present", "sid", detail.SID)
		default:
			return err
		}
	}
	logger.Info("Demo data seeded", "created", created, "total", len(demoTexts))
	return nil
}
