// Package app содержит фабрику компонентов приложения.
package app

import (
	"context"
	"fmt"

	"tweettoot/internal/checkpoint"
	"tweettoot/internal/config"
	"tweettoot/internal/external/mastodon"
	"tweettoot/internal/external/scraper"
	"tweettoot/internal/external/telegram"
	"tweettoot/internal/infrastructure/httpclient"
	"tweettoot/internal/service"
	"tweettoot/internal/storage"

	"go.uber.org/zap"
)

// ComponentFactory создает компоненты приложения
type ComponentFactory struct {
	config     *config.Config
	logger     *zap.Logger
	httpClient *httpclient.HTTPClient
}

// NewComponentFactory создает новую фабрику компонентов
func NewComponentFactory(cfg *config.Config, logger *zap.Logger) (*ComponentFactory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	httpClient := httpclient.New(httpclient.Config{
		MaxIdleConns:          cfg.HTTPClientConfig.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.HTTPClientConfig.MaxIdleConnsPerHost,
		IdleConnTimeout:       cfg.HTTPClientConfig.IdleConnTimeout,
		TLSHandshakeTimeout:   cfg.HTTPClientConfig.TLSHandshakeTimeout,
		ResponseHeaderTimeout: cfg.HTTPClientConfig.ResponseHeaderTimeout,
		DisableKeepAlives:     cfg.HTTPClientConfig.DisableKeepAlives,
		Timeout:               cfg.HTTPClientConfig.Timeout,
	}, logger)

	return &ComponentFactory{
		config:     cfg,
		logger:     logger,
		httpClient: httpClient,
	}, nil
}

// CreateFetcher создает источник постов по SOURCE_FORMAT
func (f *ComponentFactory) CreateFetcher() (service.Fetcher, error) {
	scraperConfig := scraper.Config{
		AccountURL: f.config.Source.AccountURL,
		UserAgent:  f.config.AppName,
		RetryConfig: scraper.RetryConfig{
			MaxRetries:        f.config.RetryConfig.MaxRetries,
			InitialDelay:      f.config.RetryConfig.InitialDelay,
			MaxDelay:          f.config.RetryConfig.MaxDelay,
			BackoffMultiplier: f.config.RetryConfig.BackoffMultiplier,
		},
	}
	logger := f.logger.With(zap.String("component", "fetcher"))

	switch f.config.Source.Format {
	case config.SourceFormatHTML:
		return scraper.NewHTMLFetcher(scraperConfig, f.httpClient.Transport(), logger), nil
	case config.SourceFormatRSS:
		return scraper.NewFeedFetcher(scraperConfig, f.httpClient.Transport(), logger), nil
	default:
		return nil, fmt.Errorf("unsupported source format %q", f.config.Source.Format)
	}
}

// CreateCheckpointStore создает хранилище водяной метки.
// Для postgres возвращает также подключение, которое нужно закрыть.
func (f *ComponentFactory) CreateCheckpointStore(ctx context.Context) (checkpoint.Store, *storage.Postgres, error) {
	switch f.config.Checkpoint.Backend {
	case config.CheckpointBackendFile:
		store := checkpoint.NewFileStore(f.config.Checkpoint.CachePath, config.WatermarkFileName)
		f.logger.Info("Using file checkpoint", zap.String("path", store.Path()))
		return store, nil, nil
	case config.CheckpointBackendPostgres:
		db, err := storage.NewPostgres(ctx, f.config.Checkpoint.DatabaseURL, f.logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create database connection: %w", err)
		}
		repo, err := db.GetWatermarkRepository(ctx)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to prepare watermark repository: %w", err)
		}
		f.logger.Info("Using postgres checkpoint", zap.String("key", f.config.Checkpoint.Key))
		return checkpoint.NewRepositoryStore(repo, f.config.Checkpoint.Key), db, nil
	default:
		return nil, nil, fmt.Errorf("unsupported checkpoint backend %q", f.config.Checkpoint.Backend)
	}
}

// CreateMastodonClient создает клиент инстанса
func (f *ComponentFactory) CreateMastodonClient() *mastodon.Client {
	// Общий транспорт, но свой таймаут на публикацию
	httpClient := *f.httpClient.Client()
	if f.config.Mastodon.Timeout > 0 {
		httpClient.Timeout = f.config.Mastodon.Timeout
	}

	return mastodon.NewClient(mastodon.Config{
		HostInstance: f.config.Mastodon.HostInstance,
		AccessToken:  f.config.Mastodon.AccessToken,
	}, &httpClient, f.logger.With(zap.String("component", "mastodon")))
}

// CreatePublisher создает публикатор поверх Mastodon клиента
func (f *ComponentFactory) CreatePublisher(store checkpoint.Store, client service.StatusPoster) *service.Publisher {
	return service.NewPublisher(f.config.Mastodon, store, client, f.logger.With(zap.String("component", "publisher")))
}

// CreateNotifier создает уведомитель админа, если Telegram настроен
func (f *ComponentFactory) CreateNotifier() (service.Notifier, error) {
	if !f.config.TelegramEnabled() {
		f.logger.Debug("Telegram notifications disabled")
		return nil, nil
	}

	bot, err := telegram.NewBot(f.config.Telegram.BotToken, f.httpClient.Client(), f.logger)
	if err != nil {
		return nil, err
	}

	return telegram.NewAdminNotifier(bot, f.config.Telegram.AdminChatID, f.logger.With(zap.String("component", "notifier"))), nil
}
