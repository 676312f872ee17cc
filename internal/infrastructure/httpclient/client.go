// Package httpclient содержит общий HTTP клиент для скрапинга и публикации.
package httpclient

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Config представляет конфигурацию HTTP клиента
type Config struct {
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	IdleConnTimeout       time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	DisableKeepAlives     bool
	Timeout               time.Duration
}

// HTTPClient оборачивает http.Client с настроенным транспортом
type HTTPClient struct {
	client *http.Client
	logger *zap.Logger
}

// New создает новый HTTP клиент
func New(config Config, logger *zap.Logger) *HTTPClient {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          config.MaxIdleConns,
		MaxIdleConnsPerHost:   config.MaxIdleConnsPerHost,
		IdleConnTimeout:       config.IdleConnTimeout,
		TLSHandshakeTimeout:   config.TLSHandshakeTimeout,
		ResponseHeaderTimeout: config.ResponseHeaderTimeout,
		DisableKeepAlives:     config.DisableKeepAlives,
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	logger.Debug("HTTP client configured",
		zap.Int("max_idle_conns", config.MaxIdleConns),
		zap.Duration("timeout", timeout))

	return &HTTPClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		logger: logger,
	}
}

// Client возвращает настроенный http.Client
func (c *HTTPClient) Client() *http.Client {
	return c.client
}

// Transport возвращает транспорт клиента для использования в colly и gofeed
func (c *HTTPClient) Transport() http.RoundTripper {
	return c.client.Transport
}

// HeaderTransport добавляет фиксированные заголовки к каждому запросу
type HeaderTransport struct {
	Base    http.RoundTripper
	Headers map[string]string
}

// RoundTrip реализует http.RoundTripper
func (t *HeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for key, value := range t.Headers {
		if value == "" {
			continue
		}
		req.Header.Set(key, value)
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}
