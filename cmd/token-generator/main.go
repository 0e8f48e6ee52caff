// Command token-generator mints a bearer token for the locale API using the
// configured signing secret. Operators use it to provision clients such as
// the admin UI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/phrazzld/locale-api/internal/config"
	"github.com/phrazzld/locale-api/internal/service/auth"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "token-generator: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fset := flag.NewFlagSet("token-generator", flag.ContinueOnError)
	subject := fset.String("subject", "", "name of the client the token is issued to (required)")
	envFile := fset.String("env-file", ".env", "environment file to load if present")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if *subject == "" {
		return errors.New("-subject is required")
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", *envFile, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	return mint(context.Background(), cfg.Auth, *subject, out)
}

// mint writes a signed token for subject to out.
func mint(ctx context.Context, cfg config.AuthConfig, subject string, out io.Writer) error {
	jwtService, err := auth.NewJWTService(cfg)
	if err != nil {
		return err
	}

	token, err := jwtService.GenerateToken(ctx, subject)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, token)
	return err
}
