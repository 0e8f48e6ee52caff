package store

import (
	"context"

	"github.com/phrazzld/locale-api/internal/domain"
)

// TranslationStore defines the interface for source text and translation persistence.
// It enforces SID uniqueness and (SID, LangID) uniqueness but applies no business policy.
type TranslationStore interface {
	// ListKeys returns every SID in ascending order.
	ListKeys(ctx context.Context) ([]string, error)

	// GetByKey retrieves a source text with all of its translations.
	// Returns ErrSourceTextNotFound if the SID does not exist.
	GetByKey(ctx context.Context, sid string) (*domain.SourceText, error)

	// ListAll retrieves every source text with its translations.
	ListAll(ctx context.Context) ([]*domain.SourceText, error)

	// CreateSourceText inserts a source text and its initial translations
	// atomically. Returns ErrSourceTextExists if the SID already exists; the
	// duplicate is detected by the uniqueness constraint at write time, so
	// of two concurrent creates for one SID exactly one fails.
	CreateSourceText(ctx context.Context, sourceText *domain.SourceText) error

	// UpsertTranslation writes the text for (sid, langID) in a single
	// conditional statement: an existing row is overwritten, otherwise a new
	// row is inserted. It never returns a not-found error, and it inserts the
	// row even when no source text exists for sid.
	UpsertTranslation(ctx context.Context, sid, langID, text string) (*domain.Translation, error)

	// UpdateSourceText replaces the canonical text of a source text and
	// returns the updated aggregate. Returns ErrSourceTextNotFound if absent.
	UpdateSourceText(ctx context.Context, sid, text string) (*domain.SourceText, error)

	// DeleteTranslation removes the translation for (sid, langID).
	// Returns ErrTranslationNotFound if absent.
	DeleteTranslation(ctx context.Context, sid, langID string) error

	// DeleteSourceText removes a source text and all of its translations in
	// one transaction. Returns ErrSourceTextNotFound if absent.
	DeleteSourceText(ctx context.Context, sid string) error
}
