// Package mastodon содержит клиент Mastodon API для публикации статусов.
package mastodon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// VisibilityPublic видимость статуса по умолчанию
const VisibilityPublic = "public"

// statusesPath путь API для создания статуса
const statusesPath = "/api/v1/statuses"

// maxResponseBody ограничение на тело ответа, которое читаем для логов
const maxResponseBody = 1 << 20

// Config конфигурация для Mastodon клиента
type Config struct {
	HostInstance string
	AccessToken  string
}

// Status описывает публикуемый статус
type Status struct {
	Text           string
	Visibility     string
	IdempotencyKey string
}

// Response ответ API на создание статуса
type Response struct {
	StatusCode int
	Body       string
}

// OK сообщает, принял ли инстанс статус
func (r *Response) OK() bool {
	return r.StatusCode == http.StatusOK
}

// Client представляет клиент для работы с Mastodon API
type Client struct {
	hostInstance string
	accessToken  string
	httpClient   *http.Client
	logger       *zap.Logger
	mu           sync.Mutex
	// Метрики
	requestCount    int64
	successCount    int64
	errorCount      int64
	lastRequestTime time.Time
}

// NewClient создает новый Mastodon клиент
func NewClient(config Config, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		hostInstance: strings.TrimRight(config.HostInstance, "/"),
		accessToken:  config.AccessToken,
		httpClient:   httpClient,
		logger:       logger,
	}
}

// PostStatus публикует статус. Ответ с любым кодом возвращается без ошибки,
// ошибка означает только сбой транспорта.
func (c *Client) PostStatus(ctx context.Context, status Status) (*Response, error) {
	visibility := status.Visibility
	if visibility == "" {
		visibility = VisibilityPublic
	}

	form := url.Values{}
	form.Set("status", status.Text)
	form.Set("visibility", visibility)

	endpoint := c.hostInstance + statusesPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		c.incrementError()
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if status.IdempotencyKey != "" {
		req.Header.Set("Idempotency-Key", status.IdempotencyKey)
	}

	c.recordRequest()
	c.logger.Debug("Sending status to instance",
		zap.String("endpoint", endpoint),
		zap.String("idempotency_key", status.IdempotencyKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.incrementError()
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		c.incrementError()
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	result := &Response{StatusCode: resp.StatusCode, Body: string(body)}
	if result.OK() {
		c.incrementSuccess()
	} else {
		c.incrementError()
	}

	return result, nil
}

// GetMetrics возвращает метрики клиента
func (c *Client) GetMetrics() map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	return map[string]interface{}{
		"total_requests":      c.requestCount,
		"successful_requests": c.successCount,
		"failed_requests":     c.errorCount,
		"last_request_time":   c.lastRequestTime,
	}
}

func (c *Client) recordRequest() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requestCount++
	c.lastRequestTime = time.Now()
}

// incrementSuccess увеличивает счетчик успешных запросов
func (c *Client) incrementSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.successCount++
}

// incrementError увеличивает счетчик ошибок
func (c *Client) incrementError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorCount++
}
