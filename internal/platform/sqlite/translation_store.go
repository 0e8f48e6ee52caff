package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/locale-api/internal/domain"
	"github.com/phrazzld/locale-api/internal/platform/logger"
	"github.com/phrazzld/locale-api/internal/store"
)

// Store persists source texts and translations in SQLite.
type Store struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewStore creates a SQLite translation store on top of db, which may be a
// *sql.DB or a *sql.Tx. If logger is nil, a default logger will be used.
func NewStore(db store.DBTX, logger *slog.Logger) *Store {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:     db,
		logger: logger.With(slog.String("component", "sqlite_translation_store")),
	}
}

var _ store.TranslationStore = (*Store)(nil)

// ListKeys returns every SID in ascending order.
func (s *Store) ListKeys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT sid FROM source_texts ORDER BY sid`)
	if err != nil {
		return nil, wrapError(entitySourceText, "list_keys", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	keys := make([]string, 0)
	for rows.Next() {
		var sid string
		if err := rows.Scan(&sid); err != nil {
			return nil, wrapError(entitySourceText, "list_keys", "scan failed", err)
		}
		keys = append(keys, sid)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(entitySourceText, "list_keys", "iteration failed", err)
	}
	return keys, nil
}

// GetByKey loads one source text with its translations ordered by language.
func (s *Store) GetByKey(ctx context.Context, sid string) (*domain.SourceText, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return loadSourceText(ctx, s.db, sid)
}

// ListAll loads every source text with its translations.
func (s *Store) ListAll(ctx context.Context) ([]*domain.SourceText, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.sid, s.text, t.id, t.lang_id, t.translated_text
		FROM source_texts s
		LEFT JOIN translations t ON t.sid = s.sid
		ORDER BY s.sid, t.lang_id`)
	if err != nil {
		return nil, wrapError(entitySourceText, "list_all", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	return collectSourceTexts(rows)
}

// CreateSourceText inserts the source text and its initial translations in
// one transaction. The primary key on sid reports duplicates. On success
// sourceText is replaced with the stored aggregate, including translations
// upserted for the SID before it existed.
func (s *Store) CreateSourceText(ctx context.Context, sourceText *domain.SourceText) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := sourceText.Validate(); err != nil {
		return err
	}

	var stored *domain.SourceText
	err := store.Atomically(ctx, s.db, func(ctx context.Context, q store.DBTX) error {
		_, err := q.ExecContext(ctx,
			`INSERT INTO source_texts (sid, text) VALUES (?, ?)`,
			sourceText.SID, sourceText.Text)
		if err != nil {
			if IsUniqueViolation(err) {
				return fmt.Errorf("%w: sid %q", store.ErrSourceTextExists, sourceText.SID)
			}
			return wrapError(entitySourceText, "create", "insert failed", err)
		}

		for _, tr := range sourceText.Translations {
			if _, err := upsert(ctx, q, sourceText.SID, tr.LangID, tr.TranslatedText); err != nil {
				return err
			}
		}

		stored, err = loadSourceText(ctx, q, sourceText.SID)
		return err
	})
	if err != nil {
		return err
	}

	*sourceText = *stored
	logger.FromContextOrDefault(ctx, s.logger).Debug("source text created",
		slog.String("sid", sourceText.SID),
		slog.Int("translation_count", len(sourceText.Translations)))
	return nil
}

// UpsertTranslation inserts or overwrites the (sid, langID) row in one statement.
func (s *Store) UpsertTranslation(
	ctx context.Context,
	sid, langID, text string,
) (*domain.Translation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return upsert(ctx, s.db, sid, langID, text)
}

// UpdateSourceText replaces the canonical text and returns the aggregate.
func (s *Store) UpdateSourceText(
	ctx context.Context,
	sid, text string,
) (*domain.SourceText, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var updated *domain.SourceText
	err := store.Atomically(ctx, s.db, func(ctx context.Context, q store.DBTX) error {
		result, err := q.ExecContext(ctx,
			`UPDATE source_texts SET text = ? WHERE sid = ?`, text, sid)
		if err != nil {
			return wrapError(entitySourceText, "update", "update failed", err)
		}
		if err := checkRowsAffected(result, store.ErrSourceTextNotFound); err != nil {
			return err
		}
		updated, err = loadSourceText(ctx, q, sid)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTranslation removes one translation.
func (s *Store) DeleteTranslation(ctx context.Context, sid, langID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM translations WHERE sid = ? AND lang_id = ?`, sid, langID)
	if err != nil {
		return wrapError(entityTranslation, "delete", "delete failed", err)
	}
	return checkRowsAffected(result, store.ErrTranslationNotFound)
}

// DeleteSourceText removes the source text and its translations together.
func (s *Store) DeleteSourceText(ctx context.Context, sid string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := store.Atomically(ctx, s.db, func(ctx context.Context, q store.DBTX) error {
		if _, err := q.ExecContext(ctx, `DELETE FROM translations WHERE sid = ?`, sid); err != nil {
			return wrapError(entityTranslation, "delete_by_sid", "delete failed", err)
		}
		result, err := q.ExecContext(ctx, `DELETE FROM source_texts WHERE sid = ?`, sid)
		if err != nil {
			return wrapError(entitySourceText, "delete", "delete failed", err)
		}
		return checkRowsAffected(result, store.ErrSourceTextNotFound)
	})
	if err != nil {
		return err
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("source text deleted",
		slog.String("sid", sid))
	return nil
}

func upsert(ctx context.Context, q store.DBTX, sid, langID, text string) (*domain.Translation, error) {
	var tr domain.Translation
	err := q.QueryRowContext(ctx, `
		INSERT INTO translations (sid, lang_id, translated_text)
		VALUES (?, ?, ?)
		ON CONFLICT (sid, lang_id) DO UPDATE SET translated_text = excluded.translated_text
		RETURNING id, sid, lang_id, translated_text`,
		sid, langID, text,
	).Scan(&tr.ID, &tr.SID, &tr.LangID, &tr.TranslatedText)
	if err != nil {
		return nil, wrapError(entityTranslation, "upsert", "upsert failed", err)
	}
	return &tr, nil
}

func loadSourceText(ctx context.Context, q store.DBTX, sid string) (*domain.SourceText, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT s.sid, s.text, t.id, t.lang_id, t.translated_text
		FROM source_texts s
		LEFT JOIN translations t ON t.sid = s.sid
		WHERE s.sid = ?
		ORDER BY t.lang_id`, sid)
	if err != nil {
		return nil, wrapError(entitySourceText, "get", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	texts, err := collectSourceTexts(rows)
	if err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return nil, store.ErrSourceTextNotFound
	}
	return texts[0], nil
}

func collectSourceTexts(rows *sql.Rows) ([]*domain.SourceText, error) {
	texts := make([]*domain.SourceText, 0)
	index := make(map[string]*domain.SourceText)

	for rows.Next() {
		var (
			sid, text      string
			id             sql.NullInt64
			langID, trText sql.NullString
		)
		if err := rows.Scan(&sid, &text, &id, &langID, &trText); err != nil {
			return nil, wrapError(entitySourceText, "scan", "scan failed", err)
		}

		st, ok := index[sid]
		if !ok {
			st = &domain.SourceText{SID: sid, Text: text, Translations: []domain.Translation{}}
			index[sid] = st
			texts = append(texts, st)
		}
		if id.Valid {
			st.Translations = append(st.Translations, domain.Translation{
				ID:             id.Int64,
				SID:            sid,
				LangID:         langID.String,
				TranslatedText: trText.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(entitySourceText, "scan", "iteration failed", err)
	}
	return texts, nil
}
