package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/locale-api/internal/config"
	"github.com/phrazzld/locale-api/internal/platform/gemini"
	"github.com/phrazzld/locale-api/internal/service"
	"github.com/phrazzld/locale-api/internal/service/auth"
	"github.com/phrazzld/locale-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	translationStore store.TranslationStore

	jwtService         auth.JWTService
	translationService service.TranslationService
	suggestionsEnabled bool
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.translationStore, err = newTranslationStore(cfg.Database.Driver, db, logger)
	if err != nil {
		return nil, err
	}

	// A nil suggester leaves suggestions disabled.
	var suggester service.TranslationSuggester
	if cfg.LLM.SuggestionsEnabled() {
		gs, err := gemini.NewSuggester(ctx, cfg.LLM, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize translation suggester: %w", err)
		}
		suggester = gs
		app.suggestionsEnabled = true
		logger.Info("Translation suggester initialized", "model", cfg.LLM.ModelName)
	}

	app.translationService, err = service.NewTranslationService(app.translationStore, suggester, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create translation service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
