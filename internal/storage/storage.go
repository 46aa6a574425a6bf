// Package storage persists hbnb entities. Two engines implement Engine: a
// JSON file and a SQL database. New picks one from configuration.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ferdiebergado/hbnb/internal/config"
	"github.com/ferdiebergado/hbnb/internal/model"
	"github.com/ferdiebergado/hbnb/internal/platform/db"
)

var (
	ErrNotFound    = errors.New("storage: object not found")
	ErrKeyMismatch = errors.New("storage: stored key does not match object")
)

// Engine is the capability set shared by every storage engine. Results of
// All are keyed by model.Key. An empty class means every class.
type Engine interface {
	model.Store

	All(ctx context.Context, class string) (map[string]model.Entity, error)
	Get(ctx context.Context, class, id string) (model.Entity, error)
	Count(ctx context.Context, class string) (int, error)
	Reload(ctx context.Context) error
	Close() error
}

// New builds the engine selected by cfg.Storage.Type and loads its state.
func New(ctx context.Context, cfg *config.Config) (Engine, error) {
	var engine Engine

	switch cfg.Storage.Type {
	case config.StorageFile:
		engine = NewFileStorage(cfg.Storage.FilePath)
	case config.StorageDB:
		conn, err := db.Open(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		engine = NewDBStorage(conn, cfg.App.Env == config.EnvTest)
	default:
		return nil, fmt.Errorf("storage: unknown storage type %q", cfg.Storage.Type)
	}

	if err := engine.Reload(ctx); err != nil {
		if closeErr := engine.Close(); closeErr != nil {
			slog.Error("failed to close storage", "reason", closeErr)
		}
		return nil, fmt.Errorf("reload %s storage: %w", cfg.Storage.Type, err)
	}

	slog.Info("Storage ready.", "type", cfg.Storage.Type)
	return engine, nil
}

// classes expands class into the list of classes it selects.
func classes(class string) ([]string, error) {
	if class == "" {
		return model.Classes(), nil
	}
	if !model.IsClass(class) {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownClass, class)
	}
	return []string{class}, nil
}
