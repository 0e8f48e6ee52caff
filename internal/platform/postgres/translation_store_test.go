package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/locale-api/internal/domain"
	"github.com/phrazzld/locale-api/internal/platform/postgres"
	"github.com/phrazzld/locale-api/internal/store"
	"github.com/phrazzld/locale-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uniqueSID keeps tests that commit data from colliding.
func uniqueSID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

func createSourceText(
	t *testing.T,
	s store.TranslationStore,
	sid, text string,
	translations ...domain.Translation,
) *domain.SourceText {
	t.Helper()
	st, err := domain.NewSourceText(sid, text, translations)
	require.NoError(t, err)
	require.NoError(t, s.CreateSourceText(context.Background(), st))
	return st
}

func TestNewPostgresTranslationStore(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { postgres.NewPostgresTranslationStore(nil, nil) })
}

func TestPostgresTranslationStore_CreateAndGet(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresTranslationStore(tx, nil)
		sid := uniqueSID("welcome")

		st := createSourceText(t, s, sid, "Welcome",
			domain.Translation{LangID: "de-DE", TranslatedText: "Willkommen"},
			domain.Translation{LangID: "fr-FR", TranslatedText: "Bienvenue"},
		)
		assert.NotZero(t, st.Translations[0].ID)

		got, err := s.GetByKey(ctx, sid)
		require.NoError(t, err)
		assert.Equal(t, "Welcome", got.Text)
		require.Len(t, got.Translations, 2)
		assert.Equal(t, "de-DE", got.Translations[0].LangID)
		assert.Equal(t, "Bienvenue", got.Translations[1].TranslatedText)

		keys, err := s.ListKeys(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, sid)

		_, err = s.GetByKey(ctx, uniqueSID("missing"))
		assert.ErrorIs(t, err, store.ErrSourceTextNotFound)
	})
}

func TestPostgresTranslationStore_CreateDuplicate(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresTranslationStore(tx, nil)
		sid := uniqueSID("dup")

		createSourceText(t, s, sid, "first")

		st, err := domain.NewSourceText(sid, "second", []domain.Translation{
			{LangID: "de-DE", TranslatedText: "zweite"},
		})
		require.NoError(t, err)
		err = s.CreateSourceText(ctx, st)
		assert.ErrorIs(t, err, store.ErrSourceTextExists)

		// The savepoint keeps the surrounding transaction usable.
		got, err := s.GetByKey(ctx, sid)
		require.NoError(t, err)
		assert.Equal(t, "first", got.Text)
		assert.Empty(t, got.Translations)
	})
}

func TestPostgresTranslationStore_Upsert(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresTranslationStore(tx, nil)
		sid := uniqueSID("upsert")
		createSourceText(t, s, sid, "v")

		first, err := s.UpsertTranslation(ctx, sid, "de-DE", "Eins")
		require.NoError(t, err)
		second, err := s.UpsertTranslation(ctx, sid, "de-DE", "Zwei")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "Zwei", second.TranslatedText)

		orphanSID := uniqueSID("orphan")
		orphan, err := s.UpsertTranslation(ctx, orphanSID, "de-DE", "Waise")
		require.NoError(t, err)
		assert.Equal(t, orphanSID, orphan.SID)

		_, err = s.GetByKey(ctx, orphanSID)
		assert.ErrorIs(t, err, store.ErrSourceTextNotFound)
	})
}

func TestPostgresTranslationStore_CreateAdoptsOrphans(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresTranslationStore(tx, nil)
		sid := uniqueSID("adopt")

		_, err := s.UpsertTranslation(ctx, sid, "fr-FR", "Clé")
		require.NoError(t, err)

		st := createSourceText(t, s, sid, "Key",
			domain.Translation{LangID: "de-DE", TranslatedText: "Schlüssel"},
		)
		require.Len(t, st.Translations, 2)
		assert.Equal(t, "fr-FR", st.Translations[1].LangID)

		got, err := s.GetByKey(ctx, sid)
		require.NoError(t, err)
		assert.Equal(t, got, st)
	})
}

func TestPostgresTranslationStore_UpdateAndDelete(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresTranslationStore(tx, nil)
		sid := uniqueSID("lifecycle")
		createSourceText(t, s, sid, "old",
			domain.Translation{LangID: "de-DE", TranslatedText: "a"},
			domain.Translation{LangID: "fr-FR", TranslatedText: "b"},
		)

		updated, err := s.UpdateSourceText(ctx, sid, "new")
		require.NoError(t, err)
		assert.Equal(t, "new", updated.Text)
		assert.Len(t, updated.Translations, 2)

		_, err = s.UpdateSourceText(ctx, uniqueSID("missing"), "x")
		assert.ErrorIs(t, err, store.ErrSourceTextNotFound)

		require.NoError(t, s.DeleteTranslation(ctx, sid, "de-DE"))
		assert.ErrorIs(t, s.DeleteTranslation(ctx, sid, "de-DE"), store.ErrTranslationNotFound)

		require.NoError(t, s.DeleteSourceText(ctx, sid))
		_, err = s.GetByKey(ctx, sid)
		assert.ErrorIs(t, err, store.ErrSourceTextNotFound)

		var remaining int
		require.NoError(t, tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM translations WHERE sid = $1`, sid).Scan(&remaining))
		assert.Zero(t, remaining)

		assert.ErrorIs(t, s.DeleteSourceText(ctx, sid), store.ErrSourceTextNotFound)
	})
}

func TestPostgresTranslationStore_ConcurrentCreate(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()
	s := postgres.NewPostgresTranslationStore(db, nil)
	sid := uniqueSID("race")

	t.Cleanup(func() {
		if err := s.DeleteSourceText(ctx, sid); err != nil && !errors.Is(err, store.ErrNotFound) {
			t.Logf("Warning: cleanup failed: %v", err)
		}
	})

	const workers = 5
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.CreateSourceText(ctx, &domain.SourceText{
				SID:          sid,
				Text:         fmt.Sprintf("text %d", i),
				Translations: []domain.Translation{},
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, store.ErrSourceTextExists)
	}
	assert.Equal(t, 1, successes)
}
