package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// dsnOptions enables WAL, waits on locks instead of failing with SQLITE_BUSY,
// and takes the write lock when a transaction begins.
const dsnOptions = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_txlock=immediate"

// Open opens the SQLite database at path and verifies the connection.
// When migrateUp is true all pending migrations are applied.
func Open(ctx context.Context, path string, migrateUp bool, logger *slog.Logger) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := MemoryPath + "?" + dsnOptions
	if path != MemoryPath {
		dsn = filepath.Clean(path) + "?" + dsnOptions
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite serializes writers; a single connection also keeps an
	// in-memory database alive for the lifetime of the pool.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if migrateUp {
		runner, err := NewMigrationRunner(db, logger)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		if err := runner.Up(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	return db, nil
}
