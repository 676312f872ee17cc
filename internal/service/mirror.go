package service

import (
	"context"
	"fmt"
	"time"

	"tweettoot/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Fetcher получает посты со страницы профиля
type Fetcher interface {
	Fetch(ctx context.Context) ([]model.Post, error)
}

// Notifier сообщает о результате публикации поста
type Notifier interface {
	Notify(ctx context.Context, post model.Post, outcome Outcome) error
}

// RunReport итог одного прогона зеркала
type RunReport struct {
	RunID        string        `json:"run_id"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration"`
	Fetched      int           `json:"fetched"`
	Published    int           `json:"published"`
	Skipped      int           `json:"skipped"`
	Rejected     int           `json:"rejected"`
	Bootstrapped bool          `json:"bootstrapped"`
	Error        string        `json:"error,omitempty"`
}

// Mirror связывает получение постов и их публикацию
type Mirror struct {
	fetcher   Fetcher
	publisher *Publisher
	notifier  Notifier
	logger    *zap.Logger
}

// NewMirror создает зеркало. notifier может быть nil.
func NewMirror(fetcher Fetcher, publisher *Publisher, notifier Notifier, logger *zap.Logger) *Mirror {
	return &Mirror{
		fetcher:   fetcher,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
	}
}

// RunOnce получает посты и публикует новые от старых к новым.
// Если метки еще нет, она инициализируется самым свежим постом и ничего не публикуется.
func (m *Mirror) RunOnce(ctx context.Context) (*RunReport, error) {
	report := &RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	logger := m.logger.With(zap.String("run_id", report.RunID))

	err := m.run(ctx, logger, report)
	report.Duration = time.Since(report.StartedAt)
	if err != nil {
		report.Error = err.Error()
		logger.Error("Mirror run failed", zap.Error(err), zap.Duration("duration", report.Duration))
		return report, err
	}

	logger.Info("Mirror run finished",
		zap.Int("fetched", report.Fetched),
		zap.Int("published", report.Published),
		zap.Int("skipped", report.Skipped),
		zap.Int("rejected", report.Rejected),
		zap.Bool("bootstrapped", report.Bootstrapped),
		zap.Duration("duration", report.Duration))
	return report, nil
}

func (m *Mirror) run(ctx context.Context, logger *zap.Logger, report *RunReport) error {
	posts, err := m.fetcher.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch posts: %w", err)
	}
	report.Fetched = len(posts)

	if len(posts) == 0 {
		logger.Info("Nothing to mirror")
		return nil
	}

	has, err := m.publisher.HasWatermark(ctx)
	if err != nil {
		return err
	}

	if !has {
		newest, _ := model.Newest(posts)
		outcome, err := m.publisher.Publish(ctx, newest)
		if err != nil {
			return fmt.Errorf("bootstrap watermark: %w", err)
		}
		report.Bootstrapped = outcome == OutcomeBootstrapped
		return nil
	}

	for _, post := range model.SortByTime(posts) {
		outcome, err := m.publisher.Publish(ctx, post)
		if err != nil {
			return fmt.Errorf("publish post %s: %w", post.ID, err)
		}

		switch outcome {
		case OutcomePublished:
			report.Published++
		case OutcomeRejected:
			report.Rejected++
		case OutcomeSkipped:
			report.Skipped++
		case OutcomeBootstrapped:
			// метку удалили между проверкой и публикацией
			report.Bootstrapped = true
		}

		m.notify(ctx, logger, post, outcome)
	}

	return nil
}

// notify отправляет уведомление только о попытках публикации; ошибки не прерывают прогон
func (m *Mirror) notify(ctx context.Context, logger *zap.Logger, post model.Post, outcome Outcome) {
	if m.notifier == nil {
		return
	}
	if outcome != OutcomePublished && outcome != OutcomeRejected {
		return
	}
	if err := m.notifier.Notify(ctx, post, outcome); err != nil {
		logger.Warn("Failed to send notification",
			zap.String("post_id", post.ID),
			zap.String("outcome", outcome.String()),
			zap.Error(err))
	}
}
