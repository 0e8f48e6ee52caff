// Package main implements the entry point for the locale API server, which
// stores localization strings and their translations and serves them over
// HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/phrazzld/locale-api/internal/config"
	"github.com/phrazzld/locale-api/internal/platform/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("locale-api stopped with error", "error", err)
		os.Exit(1)
	}
}

// options holds the command line flags.
type options struct {
	migrate string
	seed    bool
	envFile string
}

func parseFlags(args []string) (options, error) {
	var opts options
	fset := flag.NewFlagSet("server", flag.ContinueOnError)
	fset.StringVar(&opts.migrate, "migrate", "", "run a migration command (up, down, status) and exit")
	fset.BoolVar(&opts.seed, "seed", false, "insert demo source texts before serving")
	fset.StringVar(&opts.envFile, "env-file", ".env", "environment file to load if present")
	if err := fset.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

// run wires configuration, logging and storage, then either executes a
// migration command or serves the API until interrupted.
func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", opts.envFile, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver,
		"suggestions_enabled", cfg.LLM.SuggestionsEnabled())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Migration commands manage the schema themselves.
	migrateOnOpen := cfg.Database.MigrateOnStart && opts.migrate == ""

	db, err := setupAppDatabase(ctx, cfg.Database, migrateOnOpen, log)
	if err != nil {
		return err
	}

	if opts.migrate != "" {
		defer func() { _ = db.Close() }()
		return runMigrations(ctx, cfg.Database.Driver, db, opts.migrate, log)
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if opts.seed {
		if err := seedDemoData(ctx, app.translationService, log); err != nil {
			app.cleanup()
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return app.Run(ctx)
}
