package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/locale-api/internal/store"
)

// SQLSTATE codes the translation schema can raise.
const (
	uniqueViolationCode          = "23505"
	checkViolationCode           = "23514"
	notNullViolationCode         = "23502"
	stringTooLongCode            = "22001"
	characterNotInRepertoireCode = "22021"
)

// rejectedCodes are constraint and data errors caused by the written values.
var rejectedCodes = map[string]string{
	checkViolationCode:           "check constraint violation",
	notNullViolationCode:         "not null violation",
	stringTooLongCode:            "value too long",
	characterNotInRepertoireCode: "invalid byte sequence",
}

// MapError classifies a database error as a store sentinel.
// Unclassified errors are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	if pgErr.Code == uniqueViolationCode {
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	}
	if reason, ok := rejectedCodes[pgErr.Code]; ok {
		return fmt.Errorf("%w: %s: %v", store.ErrInvalidEntity, reason, err)
	}
	return err
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// wrapError maps err and records the entity and operation that failed.
// Store sentinels pass through so callers can keep matching them by identity.
func wrapError(entity, operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if store.IsNotFoundError(err) || store.IsDuplicateError(err) {
		return err
	}
	return store.NewStoreError(entity, operation, message, MapError(err))
}

// CheckRowsAffected returns notFound when result reports no affected rows.
// A nil notFound falls back to store.ErrNotFound.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if notFound == nil {
			return store.ErrNotFound
		}
		return notFound
	}

	return nil
}
