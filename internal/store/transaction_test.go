package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/phrazzld/locale-api/internal/store"
	"github.com/phrazzld/locale-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countSourceTexts(t *testing.T, q store.DBTX) int {
	t.Helper()
	var n int
	require.NoError(t, q.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM source_texts`).Scan(&n))
	return n
}

func insertSourceText(ctx context.Context, q store.DBTX, sid string) error {
	_, err := q.ExecContext(ctx, `INSERT INTO source_texts (sid, text) VALUES (?, 'text')`, sid)
	return err
}

func TestRunInTransaction_Success(t *testing.T) {
	db := testdb.NewSQLiteDB(t)
	ctx := context.Background()

	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		return insertSourceText(ctx, tx, "k")
	})

	require.NoError(t, err)
	assert.Equal(t, 1, countSourceTexts(t, db))
}

func TestRunInTransaction_FunctionError(t *testing.T) {
	db := testdb.NewSQLiteDB(t)
	ctx := context.Background()
	fnErr := errors.New("function error")

	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		require.NoError(t, insertSourceText(ctx, tx, "k"))
		return fnErr
	})

	assert.ErrorIs(t, err, fnErr)
	assert.Zero(t, countSourceTexts(t, db), "changes must be rolled back")
}

func TestRunInTransaction_Panic(t *testing.T) {
	db := testdb.NewSQLiteDB(t)
	ctx := context.Background()

	assert.PanicsWithValue(t, "boom", func() {
		_ = store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
			require.NoError(t, insertSourceText(ctx, tx, "k"))
			panic("boom")
		})
	})
	assert.Zero(t, countSourceTexts(t, db), "changes must be rolled back")
}

func TestRunInTransaction_BeginError(t *testing.T) {
	db := testdb.NewSQLiteDB(t)
	require.NoError(t, db.Close())

	err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		t.Fatal("fn must not run")
		return nil
	})

	assert.ErrorIs(t, err, store.ErrTransactionFailed)
}

func TestAtomically_StartsTransactionOnDB(t *testing.T) {
	db := testdb.NewSQLiteDB(t)
	ctx := context.Background()

	err := store.Atomically(ctx, db, func(ctx context.Context, q store.DBTX) error {
		require.NoError(t, insertSourceText(ctx, q, "a"))
		return insertSourceText(ctx, q, "a")
	})

	require.Error(t, err)
	assert.Zero(t, countSourceTexts(t, db))
}

func TestAtomically_UsesSavepointInsideTransaction(t *testing.T) {
	db := testdb.NewSQLiteDB(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		require.NoError(t, insertSourceText(ctx, tx, "outer"))

		err := store.Atomically(ctx, tx, func(ctx context.Context, q store.DBTX) error {
			require.NoError(t, insertSourceText(ctx, q, "inner"))
			return errors.New("abort inner")
		})
		require.Error(t, err)
		assert.Equal(t, 1, countSourceTexts(t, tx), "only the savepoint is rolled back")

		err = store.Atomically(ctx, tx, func(ctx context.Context, q store.DBTX) error {
			return insertSourceText(ctx, q, "inner")
		})
		require.NoError(t, err)
		assert.Equal(t, 2, countSourceTexts(t, tx))
	})
}
