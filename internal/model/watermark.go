// Package model содержит модели данных.
//
// Группа: ENTITIES - Основные сущности
// Содержит: Watermark, WatermarkRepository
package model

import (
	"context"

	"github.com/uptrace/bun"
)

// Watermark хранит время последнего опубликованного поста
type Watermark struct {
	bun.BaseModel `bun:"table:watermarks"`

	Key   string `bun:"key,pk" json:"key"`
	Value int64  `bun:"value,notnull" json:"value"`
	TimestampedModel
}

// WatermarkRepository определяет интерфейс для работы с водяными метками
type WatermarkRepository interface {
	Get(ctx context.Context, key string) (*Watermark, error)
	Set(ctx context.Context, key string, value int64) error
}
