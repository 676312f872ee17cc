// Package service содержит логику зеркалирования постов.
package service

import (
	"context"
	"fmt"

	"tweettoot/internal/checkpoint"
	"tweettoot/internal/config"
	"tweettoot/internal/external/mastodon"
	"tweettoot/internal/model"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// StatusPoster публикует статус на инстансе
type StatusPoster interface {
	PostStatus(ctx context.Context, status mastodon.Status) (*mastodon.Response, error)
}

// Publisher решает по водяной метке, новый ли пост, и публикует его
type Publisher struct {
	config  config.MastodonConfig
	store   checkpoint.Store
	client  StatusPoster
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewPublisher создает новый публикатор
func NewPublisher(cfg config.MastodonConfig, store checkpoint.Store, client StatusPoster, logger *zap.Logger) *Publisher {
	limit := rate.Inf
	if cfg.PublishInterval > 0 {
		limit = rate.Every(cfg.PublishInterval)
	}

	return &Publisher{
		config:  cfg,
		store:   store,
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// HasWatermark сообщает, записана ли уже водяная метка
func (p *Publisher) HasWatermark(ctx context.Context) (bool, error) {
	_, ok, err := p.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load watermark: %w", err)
	}
	return ok, nil
}

// Publish публикует пост, если он новее водяной метки.
// Метка сдвигается до запроса к инстансу и не откатывается при неудаче.
func (p *Publisher) Publish(ctx context.Context, post model.Post) (Outcome, error) {
	if err := p.config.Validate(); err != nil {
		p.logger.Error("Mastodon instance is not configured, could not publish post",
			zap.String("host_instance", p.config.HostInstance),
			zap.Error(err))
		return OutcomeFailed, err
	}

	last, ok, err := p.store.Load(ctx)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("failed to load watermark: %w", err)
	}

	if !ok {
		if err := p.store.Save(ctx, post.Time); err != nil {
			return OutcomeFailed, fmt.Errorf("failed to initialise watermark: %w", err)
		}
		p.logger.Info("Watermark initialised, nothing published",
			zap.String("post_id", post.ID),
			zap.Int64("watermark", post.Time))
		return OutcomeBootstrapped, nil
	}

	if post.Time <= last {
		p.logger.Info("No new posts, moving on",
			zap.String("post_id", post.ID),
			zap.Int64("post_time", post.Time),
			zap.Int64("watermark", last))
		return OutcomeSkipped, nil
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return OutcomeFailed, fmt.Errorf("publish rate limiter: %w", err)
	}

	if err := p.store.Save(ctx, post.Time); err != nil {
		return OutcomeFailed, fmt.Errorf("failed to advance watermark: %w", err)
	}

	p.logger.Info("New post",
		zap.String("post_id", post.ID),
		zap.String("text", post.Text),
		zap.Int64("previous_watermark", last))

	resp, err := p.client.PostStatus(ctx, mastodon.Status{
		Text:           post.Text,
		Visibility:     mastodon.VisibilityPublic,
		IdempotencyKey: post.ID,
	})
	if err != nil {
		p.logger.Error("Could not reach instance", zap.String("post_id", post.ID), zap.Error(err))
		return OutcomeFailed, fmt.Errorf("failed to post status %s: %w", post.ID, err)
	}

	if resp.OK() {
		p.logger.Info("Posted to instance",
			zap.String("post_id", post.ID),
			zap.String("response", resp.Body))
		return OutcomePublished, nil
	}

	p.logger.Warn("Instance rejected post",
		zap.String("post_id", post.ID),
		zap.Int("status", resp.StatusCode),
		zap.String("response", resp.Body))
	return OutcomeRejected, nil
}
