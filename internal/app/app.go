package app

import (
	"context"
	"fmt"

	"tweettoot/internal/config"
	"tweettoot/internal/external/mastodon"
	"tweettoot/internal/service"
	"tweettoot/internal/storage"

	"go.uber.org/zap"
)

// App собранное приложение
type App struct {
	Config   *config.Config
	Fetcher  service.Fetcher
	Mastodon *mastodon.Client
	Mirror   *service.Mirror
	DB       *storage.Postgres
	logger   *zap.Logger
}

// New собирает все компоненты зеркала
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	factory, err := NewComponentFactory(cfg, logger)
	if err != nil {
		return nil, err
	}

	fetcher, err := factory.CreateFetcher()
	if err != nil {
		return nil, err
	}

	store, db, err := factory.CreateCheckpointStore(ctx)
	if err != nil {
		return nil, err
	}

	notifier, err := factory.CreateNotifier()
	if err != nil {
		// Без уведомлений зеркало работает
		logger.Warn("Failed to create Telegram notifier, continuing without it", zap.Error(err))
		notifier = nil
	}

	client := factory.CreateMastodonClient()
	publisher := factory.CreatePublisher(store, client)

	return &App{
		Config:   cfg,
		Fetcher:  fetcher,
		Mastodon: client,
		Mirror:   service.NewMirror(fetcher, publisher, notifier, logger.With(zap.String("component", "mirror"))),
		DB:       db,
		logger:   logger,
	}, nil
}

// Close освобождает ресурсы приложения
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	if err := a.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
