package app

import (
	"context"
	"fmt"

	"github.com/ferdiebergado/hbnb/internal/config"
	"github.com/ferdiebergado/hbnb/internal/pkg/security"
	"github.com/ferdiebergado/hbnb/internal/storage"
)

// Provider holds the dependencies commands run against.
type Provider struct {
	Cfg     *config.Config
	Storage storage.Engine
	Hasher  security.Hasher
}

func NewProvider(ctx context.Context, cfg *config.Config) (*Provider, error) {
	engine, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("new storage: %w", err)
	}

	return &Provider{
		Cfg:     cfg,
		Storage: engine,
		Hasher:  security.NewArgon2Hasher(cfg.Argon2, cfg.App.Key),
	}, nil
}

func (p *Provider) Close() error {
	return p.Storage.Close()
}
