package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/phrazzld/locale-api/internal/config"
	"github.com/phrazzld/locale-api/internal/platform/migrate"
	"github.com/phrazzld/locale-api/internal/platform/postgres"
	"github.com/phrazzld/locale-api/internal/platform/sqlite"
	"github.com/phrazzld/locale-api/internal/redact"
	"github.com/phrazzld/locale-api/internal/store"
)

// setupAppDatabase opens the configured database and, when migrateUp is
// set, applies pending migrations.
func setupAppDatabase(
	ctx context.Context,
	cfg config.DatabaseConfig,
	migrateUp bool,
	logger *slog.Logger,
) (*sql.DB, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.URL, migrateUp, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		logger.Info("Database connection established", "driver", cfg.Driver)
		return db, nil

	case config.DriverPostgres:
		db, err := openPostgres(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		if migrateUp {
			if err := runMigrations(ctx, cfg.Driver, db, migrate.CommandUp, logger); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		logger.Info("Database connection established", "driver", cfg.Driver)
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %s", redact.Error(err))
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %s", redact.Error(err))
	}
	return db, nil
}

// runMigrations executes a migration command against db.
func runMigrations(ctx context.Context, driver string, db *sql.DB, command string, logger *slog.Logger) error {
	var (
		runner *migrate.Runner
		err    error
	)
	switch driver {
	case config.DriverSQLite:
		runner, err = sqlite.NewMigrationRunner(db, logger)
	case config.DriverPostgres:
		runner, err = postgres.NewMigrationRunner(db, logger)
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("failed to create migration runner: %w", err)
	}

	if err := runner.Run(ctx, command); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	return nil
}

// newTranslationStore returns the store implementation for driver.
func newTranslationStore(driver string, db *sql.DB, logger *slog.Logger) (store.TranslationStore, error) {
	switch driver {
	case config.DriverSQLite:
		return sqlite.NewStore(db, logger), nil
	case config.DriverPostgres:
		return postgres.NewPostgresTranslationStore(db, logger), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
