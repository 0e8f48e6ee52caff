package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/locale-api/internal/domain"
	"github.com/phrazzld/locale-api/internal/platform/logger"
	"github.com/phrazzld/locale-api/internal/store"
)

// Entity names recorded on store.StoreError.
const (
	entitySourceText  = "source_text"
	entityTranslation = "translation"
)

const (
	selectKeysQuery = `
		SELECT sid
		FROM source_texts
		ORDER BY sid
	`

	selectSourceTextQuery = `
		SELECT s.sid, s.text, t.id, t.lang_id, t.translated_text
		FROM source_texts s
		LEFT JOIN translations t ON t.sid = s.sid
		WHERE s.sid = $1
		ORDER BY t.lang_id
	`

	selectAllSourceTextsQuery = `
		SELECT s.sid, s.text, t.id, t.lang_id, t.translated_text
		FROM source_texts s
		LEFT JOIN translations t ON t.sid = s.sid
		ORDER BY s.sid, t.lang_id
	`

	insertSourceTextQuery = `
		INSERT INTO source_texts (sid, text)
		VALUES ($1, $2)
	`

	upsertTranslationQuery = `
		INSERT INTO translations (sid, lang_id, translated_text)
		VALUES ($1, $2, $3)
		ON CONFLICT (sid, lang_id)
		DO UPDATE SET translated_text = EXCLUDED.translated_text
		RETURNING id, sid, lang_id, translated_text
	`

	updateSourceTextQuery = `
		UPDATE source_texts
		SET text = $2
		WHERE sid = $1
	`

	deleteTranslationQuery = `
		DELETE FROM translations
		WHERE sid = $1 AND lang_id = $2
	`

	deleteTranslationsBySIDQuery = `
		DELETE FROM translations
		WHERE sid = $1
	`

	deleteSourceTextQuery = `
		DELETE FROM source_texts
		WHERE sid = $1
	`
)

// PostgresTranslationStore implements the store.TranslationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTranslationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTranslationStore creates a new PostgreSQL implementation of the TranslationStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTranslationStore(db store.DBTX, logger *slog.Logger) *PostgresTranslationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTranslationStore{
		db:     db,
		logger: logger.With(slog.String("component", "translation_store")),
	}
}

// Ensure PostgresTranslationStore implements store.TranslationStore interface
var _ store.TranslationStore = (*PostgresTranslationStore)(nil)

// ListKeys implements store.TranslationStore.ListKeys
func (s *PostgresTranslationStore) ListKeys(ctx context.Context) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, selectKeysQuery)
	if err != nil {
		log.Error("failed to query source text keys", slog.String("error", err.Error()))
		return nil, wrapError(entitySourceText, "list_keys", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	keys := make([]string, 0)
	for rows.Next() {
		var sid string
		if err := rows.Scan(&sid); err != nil {
			log.Error("failed to scan source text key", slog.String("error", err.Error()))
			return nil, wrapError(entitySourceText, "list_keys", "scan failed", err)
		}
		keys = append(keys, sid)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating source text keys", slog.String("error", err.Error()))
		return nil, wrapError(entitySourceText, "list_keys", "iteration failed", err)
	}

	log.Debug("listed source text keys", slog.Int("count", len(keys)))
	return keys, nil
}

// GetByKey implements store.TranslationStore.GetByKey
// Returns store.ErrSourceTextNotFound if the SID does not exist.
func (s *PostgresTranslationStore) GetByKey(
	ctx context.Context,
	sid string,
) (*domain.SourceText, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("retrieving source text", slog.String("sid", sid))

	st, err := getSourceText(ctx, s.db, sid)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("source text not found", slog.String("sid", sid))
		} else {
			log.Error("failed to retrieve source text",
				slog.String("sid", sid),
				slog.String("error", err.Error()))
		}
		return nil, err
	}
	return st, nil
}

// ListAll implements store.TranslationStore.ListAll
func (s *PostgresTranslationStore) ListAll(ctx context.Context) ([]*domain.SourceText, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, selectAllSourceTextsQuery)
	if err != nil {
		log.Error("failed to query source texts", slog.String("error", err.Error()))
		return nil, wrapError(entitySourceText, "list_all", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	texts, err := scanSourceTexts(rows)
	if err != nil {
		log.Error("failed to scan source texts", slog.String("error", err.Error()))
		return nil, wrapError(entitySourceText, "list_all", "scan failed", err)
	}

	log.Debug("listed source texts", slog.Int("count", len(texts)))
	return texts, nil
}

// CreateSourceText implements store.TranslationStore.CreateSourceText
// The source text row and all initial translations are written in one
// transaction. Initial translations overwrite rows already stored for the SID.
// On success sourceText is replaced with the stored aggregate, which also
// holds translations upserted for the SID before it was created.
func (s *PostgresTranslationStore) CreateSourceText(
	ctx context.Context,
	sourceText *domain.SourceText,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := sourceText.Validate(); err != nil {
		log.Warn("source text validation failed during create",
			slog.String("sid", sourceText.SID),
			slog.String("error", err.Error()))
		return err
	}

	var stored *domain.SourceText
	err := store.Atomically(ctx, s.db, func(ctx context.Context, q store.DBTX) error {
		if _, err := q.ExecContext(ctx, insertSourceTextQuery, sourceText.SID, sourceText.Text); err != nil {
			if IsUniqueViolation(err) {
				return fmt.Errorf("%w: sid %q", store.ErrSourceTextExists, sourceText.SID)
			}
			return wrapError(entitySourceText, "create", "insert failed", err)
		}

		for _, tr := range sourceText.Translations {
			if _, err := upsertTranslation(ctx, q, sourceText.SID, tr.LangID, tr.TranslatedText); err != nil {
				return err
			}
		}

		var err error
		stored, err = getSourceText(ctx, q, sourceText.SID)
		return err
	})
	if err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("source text already exists", slog.String("sid", sourceText.SID))
		} else {
			log.Error("failed to create source text",
				slog.String("sid", sourceText.SID),
				slog.String("error", err.Error()))
		}
		return err
	}

	*sourceText = *stored
	log.Debug("source text created",
		slog.String("sid", sourceText.SID),
		slog.Int("translation_count", len(sourceText.Translations)))
	return nil
}

// UpsertTranslation implements store.TranslationStore.UpsertTranslation
// Insert-or-update is a single statement, so concurrent upserts of the same
// pair never produce two rows.
func (s *PostgresTranslationStore) UpsertTranslation(
	ctx context.Context,
	sid, langID, text string,
) (*domain.Translation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tr, err := upsertTranslation(ctx, s.db, sid, langID, text)
	if err != nil {
		log.Error("failed to upsert translation",
			slog.String("sid", sid),
			slog.String("lang_id", langID),
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("translation upserted",
		slog.String("sid", sid),
		slog.String("lang_id", langID),
		slog.Int64("translation_id", tr.ID))
	return tr, nil
}

// UpdateSourceText implements store.TranslationStore.UpdateSourceText
// Returns store.ErrSourceTextNotFound if the SID does not exist.
func (s *PostgresTranslationStore) UpdateSourceText(
	ctx context.Context,
	sid, text string,
) (*domain.SourceText, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.SourceText
	err := store.Atomically(ctx, s.db, func(ctx context.Context, q store.DBTX) error {
		result, err := q.ExecContext(ctx, updateSourceTextQuery, sid, text)
		if err != nil {
			return wrapError(entitySourceText, "update", "update failed", err)
		}
		if err := CheckRowsAffected(result, store.ErrSourceTextNotFound); err != nil {
			return err
		}

		updated, err = getSourceText(ctx, q, sid)
		return err
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("source text not found for update", slog.String("sid", sid))
		} else {
			log.Error("failed to update source text",
				slog.String("sid", sid),
				slog.String("error", err.Error()))
		}
		return nil, err
	}

	log.Debug("source text updated", slog.String("sid", sid))
	return updated, nil
}

// DeleteTranslation implements store.TranslationStore.DeleteTranslation
// Returns store.ErrTranslationNotFound if no row matches (sid, langID).
func (s *PostgresTranslationStore) DeleteTranslation(ctx context.Context, sid, langID string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, deleteTranslationQuery, sid, langID)
	if err != nil {
		log.Error("failed to delete translation",
			slog.String("sid", sid),
			slog.String("lang_id", langID),
			slog.String("error", err.Error()))
		return wrapError(entityTranslation, "delete", "delete failed", err)
	}

	if err := CheckRowsAffected(result, store.ErrTranslationNotFound); err != nil {
		log.Debug("translation not found for deletion",
			slog.String("sid", sid),
			slog.String("lang_id", langID))
		return err
	}

	log.Debug("translation deleted",
		slog.String("sid", sid),
		slog.String("lang_id", langID))
	return nil
}

// DeleteSourceText implements store.TranslationStore.DeleteSourceText
// Translations are deleted first; if the source text does not exist the
// transaction is rolled back and store.ErrSourceTextNotFound is returned.
func (s *PostgresTranslationStore) DeleteSourceText(ctx context.Context, sid string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var removed int64
	err := store.Atomically(ctx, s.db, func(ctx context.Context, q store.DBTX) error {
		result, err := q.ExecContext(ctx, deleteTranslationsBySIDQuery, sid)
		if err != nil {
			return wrapError(entityTranslation, "delete_by_sid", "delete failed", err)
		}
		if removed, err = result.RowsAffected(); err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}

		result, err = q.ExecContext(ctx, deleteSourceTextQuery, sid)
		if err != nil {
			return wrapError(entitySourceText, "delete", "delete failed", err)
		}
		return CheckRowsAffected(result, store.ErrSourceTextNotFound)
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("source text not found for deletion", slog.String("sid", sid))
		} else {
			log.Error("failed to delete source text",
				slog.String("sid", sid),
				slog.String("error", err.Error()))
		}
		return err
	}

	log.Debug("source text deleted",
		slog.String("sid", sid),
		slog.Int64("translations_deleted", removed))
	return nil
}

func upsertTranslation(
	ctx context.Context,
	q store.DBTX,
	sid, langID, text string,
) (*domain.Translation, error) {
	var tr domain.Translation
	err := q.QueryRowContext(ctx, upsertTranslationQuery, sid, langID, text).Scan(
		&tr.ID,
		&tr.SID,
		&tr.LangID,
		&tr.TranslatedText,
	)
	if err != nil {
		return nil, wrapError(entityTranslation, "upsert", "upsert failed", err)
	}
	return &tr, nil
}

func getSourceText(ctx context.Context, q store.DBTX, sid string) (*domain.SourceText, error) {
	rows, err := q.QueryContext(ctx, selectSourceTextQuery, sid)
	if err != nil {
		return nil, wrapError(entitySourceText, "get", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	texts, err := scanSourceTexts(rows)
	if err != nil {
		return nil, wrapError(entitySourceText, "get", "scan failed", err)
	}
	if len(texts) == 0 {
		return nil, store.ErrSourceTextNotFound
	}
	return texts[0], nil
}

// scanSourceTexts groups joined source text and translation rows.
// Rows must be ordered by SID.
func scanSourceTexts(rows *sql.Rows) ([]*domain.SourceText, error) {
	texts := make([]*domain.SourceText, 0)
	var current *domain.SourceText

	for rows.Next() {
		var (
			sid, text string
			trID      sql.NullInt64
			langID    sql.NullString
			trText    sql.NullString
		)
		if err := rows.Scan(&sid, &text, &trID, &langID, &trText); err != nil {
			return nil, err
		}

		if current == nil || current.SID != sid {
			current = &domain.SourceText{
				SID:          sid,
				Text:         text,
				Translations: make([]domain.Translation, 0),
			}
			texts = append(texts, current)
		}

		if trID.Valid {
			current.Translations = append(current.Translations, domain.Translation{
				ID:             trID.Int64,
				SID:            sid,
				LangID:         langID.String,
				TranslatedText: trText.String,
			})
		}
	}

	return texts, rows.Err()
}
