// Package repository содержит репозитории для работы с базой данных.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tweettoot/internal/model"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// WatermarkRepository реализует model.WatermarkRepository поверх bun
type WatermarkRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

// Убеждаемся, что WatermarkRepository реализует интерфейс
var _ model.WatermarkRepository = (*WatermarkRepository)(nil)

// NewWatermarkRepository создает новый репозиторий водяных меток
func NewWatermarkRepository(db *bun.DB, logger *zap.Logger) *WatermarkRepository {
	return &WatermarkRepository{
		db:     db,
		logger: logger,
	}
}

// CreateTable создает таблицу, если ее нет
func (r *WatermarkRepository) CreateTable(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*model.Watermark)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create watermarks table: %w", err)
	}
	return nil
}

// Get возвращает метку по ключу или nil, если ее нет
func (r *WatermarkRepository) Get(ctx context.Context, key string) (*model.Watermark, error) {
	watermark := new(model.Watermark)

	err := r.selectQuery(watermark, key).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan watermark: %w", err)
	}

	return watermark, nil
}

// Set записывает метку, перезаписывая существующую
func (r *WatermarkRepository) Set(ctx context.Context, key string, value int64) error {
	watermark := &model.Watermark{
		Key:   key,
		Value: value,
	}
	now := time.Now().UTC()
	watermark.CreatedAt = now
	watermark.UpdatedAt = now

	if _, err := r.upsertQuery(watermark).Exec(ctx); err != nil {
		return fmt.Errorf("failed to set watermark: %w", err)
	}

	r.logger.Debug("Watermark stored", zap.String("key", key), zap.Int64("value", value))
	return nil
}

func (r *WatermarkRepository) selectQuery(watermark *model.Watermark, key string) *bun.SelectQuery {
	return r.db.NewSelect().
		Model(watermark).
		Where("key = ?", key).
		Limit(1)
}

func (r *WatermarkRepository) upsertQuery(watermark *model.Watermark) *bun.InsertQuery {
	return r.db.NewInsert().
		Model(watermark).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at")
}
