// Package scraper содержит типы для веб-скрапинга.
package scraper

import (
	"context"
	"errors"
	"time"

	"tweettoot/internal/config"
	"tweettoot/internal/model"
)

// Ошибки получения и разбора ленты
var (
	ErrTimelineNotFound = errors.New("timeline container not found")
	ErrMissingItemID    = errors.New("post item has no id attribute")
	ErrMissingText      = errors.New("post item has no text element")
	ErrMissingTimestamp = errors.New("post item has no timestamp")
	ErrInvalidTimestamp = errors.New("post item has invalid timestamp")
)

// Заголовки, которые отправляются вместе с запросом страницы профиля
const (
	acceptLanguage = "en-US,en;q=0.9"
	doNotTrack     = "1"
)

// Fetcher определяет интерфейс для получения постов со страницы профиля.
// Возвращает nil без ошибки, если лента найдена, но валидных постов в ней нет.
type Fetcher interface {
	Fetch(ctx context.Context) ([]model.Post, error)
}

// Config представляет конфигурацию скрейпера
type Config struct {
	AccountURL  string
	UserAgent   string
	RetryConfig RetryConfig
}

// RetryConfig представляет конфигурацию retry механизма
type RetryConfig struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

var _ model.Validator = Config{}

// Validate проверяет адрес источника
func (c Config) Validate() error {
	return config.SourceConfig{AccountURL: c.AccountURL}.Validate()
}

// requestHeaders возвращает заголовки запроса страницы
func (c Config) requestHeaders() map[string]string {
	return map[string]string{
		"Accept-Language": acceptLanguage,
		"DNT":             doNotTrack,
		"User-Agent":      c.UserAgent,
	}
}
