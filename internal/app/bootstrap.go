package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/ferdiebergado/gopherkit/env"
	"github.com/ferdiebergado/hbnb/internal/config"
	"github.com/ferdiebergado/hbnb/internal/pkg/logging"
)

const usage = `usage: hbnb [-config file] <command> [args]

commands:
  all [Class]          print every object, or every object of Class
  count [Class]        print the number of objects
  show <Class> <id>    print one object
  destroy <Class> <id> delete one object
  seed                 store a sample state, city, user, place, amenity and review
  verify <email> <pwd>  check a user's password
`

// Run parses args, wires the storage engine and executes one command,
// writing its output to out.
func Run(ctx context.Context, args []string, out io.Writer) error {
	flags := flag.NewFlagSet("hbnb", flag.ContinueOnError)
	flags.SetOutput(out)
	flags.Usage = func() { fmt.Fprint(out, usage) }
	cfgFile := flags.String("config", "config.json", "path to the JSON config file")
	envFile := flags.String("env", ".env", "environment file loaded outside production")

	if err := flags.Parse(args); err != nil {
		return err
	}

	if err := loadEnvFile(*envFile); err != nil {
		return err
	}

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		return err
	}

	logging.SetupLogger(cfg.App.Env, cfg.App.LogLevel, os.Stderr)

	provider, err := NewProvider(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := provider.Close(); err != nil {
			slog.Error("failed to close storage", "reason", err)
		}
	}()

	return Execute(ctx, provider, flags.Args(), out)
}

// loadEnvFile loads envFile when it exists, except in production.
func loadEnvFile(envFile string) error {
	if os.Getenv("HBNB_ENV") == config.EnvProduction {
		return nil
	}

	if _, err := os.Stat(envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}

	if err := env.Load(envFile); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}
