// Package model содержит базовые модели.
//
// Группа: BASE - Базовые компоненты
// Содержит: TimestampedModel
package model

import (
	"time"
)

// TimestampedModel представляет модель с временными метками
type TimestampedModel struct {
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
