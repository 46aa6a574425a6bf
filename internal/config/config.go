package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ferdiebergado/hbnb/internal/pkg/env"
	timex "github.com/ferdiebergado/hbnb/internal/pkg/time"
	"github.com/ferdiebergado/hbnb/internal/pkg/validation"
)

const (
	StorageFile = "file"
	StorageDB   = "db"

	EnvTest       = "test"
	EnvProduction = "production"
)

var ErrInvalid = errors.New("config: invalid configuration")

type App struct {
	Env      string `json:"env,omitempty" env:"HBNB_ENV" validate:"required,oneof=dev test production"`
	LogLevel string `json:"log_level,omitempty" env:"HBNB_LOG_LEVEL"`
	Key      string `json:"-" env:"HBNB_KEY"`
}

type Storage struct {
	Type     string `json:"type,omitempty" env:"HBNB_TYPE_STORAGE" validate:"required,oneof=file db"`
	FilePath string `json:"file_path,omitempty" env:"HBNB_FILE_PATH" validate:"required_if=Type file"`
}

type DB struct {
	Driver          string         `json:"driver,omitempty" env:"HBNB_DB_DRIVER" validate:"required,oneof=pgx sqlite3"`
	Path            string         `json:"path,omitempty" env:"HBNB_DB_PATH" validate:"required_if=Driver sqlite3"`
	MaxOpenConns    int            `json:"max_open_conns,omitempty" validate:"gte=0"`
	MaxIdleConns    int            `json:"max_idle_conns,omitempty" validate:"gte=0"`
	ConnMaxIdleTime timex.Duration `json:"conn_max_idle_time,omitempty"`
	ConnMaxLifetime timex.Duration `json:"conn_max_lifetime,omitempty"`
	PingTimeout     timex.Duration `json:"ping_timeout,omitempty"`
}

type Argon2 struct {
	Memory     uint32 `json:"memory,omitempty" validate:"gte=8"`
	Iterations uint32 `json:"iterations,omitempty" validate:"gte=1"`
	Threads    uint8  `json:"threads,omitempty" validate:"gte=1"`
	SaltLength uint32 `json:"salt_length,omitempty" validate:"gte=8"`
	KeyLength  uint32 `json:"key_length,omitempty" validate:"gte=16"`
}

type Config struct {
	App     *App     `json:"app,omitempty" validate:"required"`
	Storage *Storage `json:"storage,omitempty" validate:"required"`
	DB      *DB      `json:"db,omitempty" validate:"required"`
	Argon2  *Argon2  `json:"argon2,omitempty" validate:"required"`
}

func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("app", slog.GroupValue(
			slog.String("env", c.App.Env),
			slog.String("log_level", c.App.LogLevel),
		)),
		slog.Any("storage", c.Storage),
		slog.Any("db", c.DB),
		slog.Any("argon2", c.Argon2),
	)
}

// Default returns the configuration used for keys absent from config.json.
func Default() *Config {
	return &Config{
		App: &App{
			Env:      "dev",
			LogLevel: "info",
		},
		Storage: &Storage{
			Type:     StorageFile,
			FilePath: "file.json",
		},
		DB: &DB{
			Driver:          "pgx",
			MaxOpenConns:    5,
			MaxIdleConns:    5,
			ConnMaxIdleTime: timex.Duration{Duration: 5 * time.Minute},
			ConnMaxLifetime: timex.Duration{Duration: time.Hour},
			PingTimeout:     timex.Duration{Duration: 5 * time.Second},
		},
		Argon2: &Argon2{
			Memory:     64 * 1024,
			Iterations: 3,
			Threads:    2,
			SaltLength: 16,
			KeyLength:  32,
		},
	}
}

// Load reads cfgFile over the defaults, applies environment overrides and
// validates the result. An empty cfgFile skips the file.
func Load(cfgFile string) (*Config, error) {
	slog.Info("Loading config...")
	cfg := Default()

	if cfgFile != "" {
		if err := parseCfgFile(cfgFile, cfg); err != nil {
			return nil, err
		}
	}

	if err := env.OverrideStruct(cfg); err != nil {
		return nil, fmt.Errorf("override config with env: %w", err)
	}

	if err := cfg.Validate(validation.NewGoPlaygroundValidator()); err != nil {
		return nil, err
	}

	slog.Info("Config loaded.", "config_file", cfgFile, slog.Any("config", cfg))
	return cfg, nil
}

func (c *Config) Validate(v validation.Validator) error {
	errs := v.ValidateStruct(c)
	if len(errs) == 0 {
		return nil
	}

	msgs := make([]string, 0, len(errs))
	for _, field := range slices.Sorted(maps.Keys(errs)) {
		msgs = append(msgs, errs[field])
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func parseCfgFile(cfgFile string, cfg *Config) error {
	cfgFile = filepath.Clean(cfgFile)
	b, err := os.ReadFile(cfgFile)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", cfgFile, err)
	}

	if err := json.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("decode json config %s: %w", cfgFile, err)
	}

	return nil
}
