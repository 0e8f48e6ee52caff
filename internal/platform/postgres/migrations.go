package postgres

import (
	"database/sql"
	"embed"
	"io/fs"
	"log/slog"

	"github.com/phrazzld/locale-api/internal/platform/migrate"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migrations returns the PostgreSQL schema migrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// NewMigrationRunner creates a migration runner for a PostgreSQL database.
func NewMigrationRunner(db *sql.DB, logger *slog.Logger) (*migrate.Runner, error) {
	return migrate.NewRunner(goose.DialectPostgres, db, Migrations(), logger)
}
