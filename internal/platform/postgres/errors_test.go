package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/locale-api/internal/platform/postgres"
	"github.com/phrazzld/locale-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		TableName:      "translations",
		ColumnName:     "lang_id",
		ConstraintName: "translations_sid_lang_id_key",
	}
}

// MockResult implements sql.Result for testing
type MockResult struct {
	rowsAffected int64
	err          error
}

func (m MockResult) LastInsertId() (int64, error) {
	return 0, m.err
}

func (m MockResult) RowsAffected() (int64, error) {
	return m.rowsAffected, m.err
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{name: "no rows", err: sql.ErrNoRows, expected: store.ErrNotFound},
		{name: "unique violation", err: newPgError("23505"), expected: store.ErrDuplicate},
		{name: "check violation", err: newPgError("23514"), expected: store.ErrInvalidEntity},
		{name: "not null violation", err: newPgError("23502"), expected: store.ErrInvalidEntity},
		{name: "value too long", err: newPgError("22001"), expected: store.ErrInvalidEntity},
		{name: "invalid byte sequence", err: newPgError("22021"), expected: store.ErrInvalidEntity},
		{
			name:     "wrapped unique violation",
			err:      fmt.Errorf("insert: %w", newPgError("23505")),
			expected: store.ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, postgres.MapError(tt.err), tt.expected)
		})
	}

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, postgres.MapError(nil))
	})

	t.Run("unmapped error is returned unchanged", func(t *testing.T) {
		plain := errors.New("connection reset")
		assert.Equal(t, plain, postgres.MapError(plain))

		syntax := newPgError("42601")
		assert.Equal(t, error(syntax), postgres.MapError(syntax))
	})
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.False(t, postgres.IsUniqueViolation(nil))
	assert.False(t, postgres.IsUniqueViolation(errors.New("generic error")))
	assert.True(t, postgres.IsUniqueViolation(newPgError("23505")))
	assert.False(t, postgres.IsUniqueViolation(newPgError("23514")))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, postgres.CheckRowsAffected(MockResult{rowsAffected: 1}, store.ErrTranslationNotFound))

	err := postgres.CheckRowsAffected(MockResult{rowsAffected: 0}, store.ErrTranslationNotFound)
	assert.ErrorIs(t, err, store.ErrTranslationNotFound)

	err = postgres.CheckRowsAffected(MockResult{rowsAffected: 0}, nil)
	assert.ErrorIs(t, err, store.ErrNotFound)

	resultErr := errors.New("driver failure")
	err = postgres.CheckRowsAffected(MockResult{err: resultErr}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, resultErr)

	assert.Error(t, postgres.CheckRowsAffected(nil, nil))
}
