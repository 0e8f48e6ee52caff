package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/locale-api/internal/platform/logger"
)

// TxFn is a function that executes within a database transaction.
// The transaction is committed if the function returns nil, or rolled back if it returns an error.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction executes the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// Otherwise, the transaction is committed.
// A panic inside fn rolls the transaction back and is re-raised.
func RunInTransaction(ctx context.Context, db TxBeginner, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: begin: %v", ErrTransactionFailed, err)
	}

	defer func() {
		if p := recover(); p != nil {
			if txErr := tx.Rollback(); txErr != nil {
				log.Error("failed to roll back transaction after panic",
					slog.String("error", txErr.Error()),
					slog.Any("panic", p))
			} else {
				log.Error("rolled back transaction after panic",
					slog.Any("panic", p))
			}
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rollbackErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf(
				"error rolling back transaction: %v (original error: %w)",
				rollbackErr,
				err,
			)
		}
		log.Debug("rolled back transaction due to error",
			slog.String("error", err.Error()))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: commit: %v", ErrTransactionFailed, err)
	}

	log.Debug("transaction committed successfully")
	return nil
}

// savepointName is used when Atomically runs inside a caller-owned transaction.
const savepointName = "store_atomic"

// Atomically runs fn so that all of its statements commit or roll back together.
// When db is a *sql.DB a new transaction is started. When db is already a
// transaction (for example a test transaction that is rolled back afterwards),
// fn runs inside a savepoint, so a failed statement does not poison the outer
// transaction.
func Atomically(ctx context.Context, db DBTX, fn func(ctx context.Context, q DBTX) error) error {
	if beginner, ok := db.(TxBeginner); ok {
		return RunInTransaction(ctx, beginner, func(ctx context.Context, tx *sql.Tx) error {
			return fn(ctx, tx)
		})
	}

	if _, err := db.ExecContext(ctx, "SAVEPOINT "+savepointName); err != nil {
		return fmt.Errorf("%w: savepoint: %v", ErrTransactionFailed, err)
	}
	if err := fn(ctx, db); err != nil {
		if _, rbErr := db.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepointName); rbErr != nil {
			return fmt.Errorf(
				"error rolling back savepoint: %v (original error: %w)",
				rbErr,
				err,
			)
		}
		return err
	}
	if _, err := db.ExecContext(ctx, "RELEASE SAVEPOINT "+savepointName); err != nil {
		return fmt.Errorf("%w: release savepoint: %v", ErrTransactionFailed, err)
	}
	return nil
}
