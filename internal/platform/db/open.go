package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/ferdiebergado/hbnb/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"

	defaultPingTimeout = 5 * time.Second
)

// Open creates and validates a connection pool for cfg.Driver. Postgres
// parameters come from the HBNB_DB_* environment variables, SQLite uses
// cfg.Path.
func Open(ctx context.Context, cfg *config.DB) (*sql.DB, error) {
	slog.Info("Connecting to the database...", "driver", cfg.Driver)

	dsn, err := dataSourceName(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime.Duration)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime.Duration)

	if cfg.Driver == DriverSQLite {
		// one writer; the session transaction owns the connection.
		conn.SetMaxOpenConns(1)
	}

	pingTimeout := cfg.PingTimeout.Duration
	if pingTimeout <= 0 {
		pingTimeout = defaultPingTimeout
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	slog.Info("Connected to the database.", "driver", cfg.Driver)

	return conn, nil
}

func dataSourceName(cfg *config.DB) (string, error) {
	switch cfg.Driver {
	case DriverPostgres:
		const dsnFmt = "postgres://%s@%s:%s/%s?sslmode=%s"

		dbHost := os.Getenv("HBNB_DB_HOST")
		dbPort := os.Getenv("HBNB_DB_PORT")
		dbUser := os.Getenv("HBNB_DB_USER")
		dbPass := os.Getenv("HBNB_DB_PASS")
		dbName := os.Getenv("HBNB_DB_NAME")
		dbSSL := os.Getenv("HBNB_DB_SSLMODE")
		if dbSSL == "" {
			dbSSL = "disable"
		}

		userInfo := url.UserPassword(dbUser, dbPass).String()
		return fmt.Sprintf(dsnFmt, userInfo, dbHost, dbPort, url.PathEscape(dbName), dbSSL), nil
	case DriverSQLite:
		return "file:" + cfg.Path + "?_foreign_keys=on&_busy_timeout=5000", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
