// Package migrate runs the embedded goose migrations of a storage backend.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

// Supported migration commands.
const (
	CommandUp     = "up"
	CommandDown   = "down"
	CommandStatus = "status"
)

// ErrUnknownCommand is returned by Run for commands other than up, down and status.
var ErrUnknownCommand = errors.New("unknown migration command")

// slogGooseLogger adapts slog to the goose.Logger interface.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf forwards goose progress messages to slog at info level.
func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf forwards goose failures to slog at error level.
// It does not exit; the error is returned to the caller instead.
func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

// Runner applies migrations from an embedded filesystem.
type Runner struct {
	provider *goose.Provider
	logger   *slog.Logger
}

// NewRunner creates a Runner for db using the migrations in fsys.
// fsys must contain the .sql files at its root.
func NewRunner(
	dialect goose.Dialect,
	db *sql.DB,
	fsys fs.FS,
	logger *slog.Logger,
) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "migrations"))

	provider, err := goose.NewProvider(dialect, db, fsys,
		goose.WithLogger(&slogGooseLogger{logger: logger}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	return &Runner{provider: provider, logger: logger}, nil
}

// Up applies every pending migration.
func (r *Runner) Up(ctx context.Context) error {
	results, err := r.provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	for _, res := range results {
		r.logger.Info("applied migration",
			slog.Int64("version", res.Source.Version),
			slog.String("path", res.Source.Path),
			slog.Duration("duration", res.Duration))
	}
	if len(results) == 0 {
		r.logger.Debug("no pending migrations")
	}
	return nil
}

// Down rolls back the most recently applied migration.
func (r *Runner) Down(ctx context.Context) error {
	res, err := r.provider.Down(ctx)
	if err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	r.logger.Info("rolled back migration",
		slog.Int64("version", res.Source.Version),
		slog.String("path", res.Source.Path))
	return nil
}

// Status logs the state of every known migration.
func (r *Runner) Status(ctx context.Context) error {
	statuses, err := r.provider.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}
	for _, st := range statuses {
		r.logger.Info("migration status",
			slog.Int64("version", st.Source.Version),
			slog.String("path", st.Source.Path),
			slog.String("state", string(st.State)),
			slog.Time("applied_at", st.AppliedAt))
	}
	return nil
}

// Run dispatches a migration command by name.
func (r *Runner) Run(ctx context.Context, command string) error {
	switch command {
	case CommandUp:
		return r.Up(ctx)
	case CommandDown:
		return r.Down(ctx)
	case CommandStatus:
		return r.Status(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}
}
