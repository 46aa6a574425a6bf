package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/ferdiebergado/gopherkit/env"
	"github.com/ferdiebergado/hbnb/internal/config"
)

// SetupSQLite opens a fresh SQLite database under t.TempDir and closes it
// when the test ends.
func SetupSQLite(t *testing.T) (*sql.DB, *config.DB) {
	t.Helper()

	cfg := config.Default().DB
	cfg.Driver = DriverSQLite
	cfg.Path = filepath.Join(t.TempDir(), "hbnb_test.db")

	conn, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}

	t.Cleanup(func() {
		if err := conn.Close(); err != nil {
			t.Logf("failed to close database: %v", err)
		}
	})

	return conn, cfg
}

// SetupPostgres connects to the database described by .env.testing at the
// project root (copy .env.testing.example). It is used by integration tests
// only.
func SetupPostgres(t *testing.T) (*sql.DB, *config.DB) {
	t.Helper()

	const projRoot = "../../"

	if err := env.Load(projRoot + ".env.testing"); err != nil {
		t.Fatalf("failed to load environment file: %v", err)
	}

	cfg := config.Default().DB
	cfg.Driver = DriverPostgres

	conn, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	t.Cleanup(func() {
		if err := conn.Close(); err != nil {
			t.Logf("failed to close database: %v", err)
		}
	})

	return conn, cfg
}
