// Package config содержит загрузку и валидацию конфигурации.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"tweettoot/internal/model"

	"github.com/joho/godotenv"
)

// Ошибки отсутствующих обязательных настроек
var (
	ErrMissingSourceURL    = errors.New("source account URL is empty")
	ErrMissingHostInstance = errors.New("host instance URL is empty")
	ErrMissingAccessToken  = errors.New("access token is empty")
)

// Форматы источника
const (
	SourceFormatHTML = "html"
	SourceFormatRSS  = "rss"
)

// Бэкенды хранения водяной метки
const (
	CheckpointBackendFile     = "file"
	CheckpointBackendPostgres = "postgres"
)

// WatermarkFileName имя файла с водяной меткой внутри CachePath
const WatermarkFileName = "last_tweet_tooted"

// Config представляет конфигурацию приложения
type Config struct {
	// App
	AppName string

	// Source
	Source SourceConfig

	// Mastodon
	Mastodon MastodonConfig

	// Checkpoint
	Checkpoint CheckpointConfig

	// Telegram
	Telegram TelegramConfig

	// Health
	HealthPort         string
	HealthCheckEnabled bool

	// Schedule
	Schedule string

	// Logging
	Log LogConfig

	// HTTP Client
	HTTPClientConfig HTTPClientConfig

	// Retry
	RetryConfig RetryConfig
}

// SourceConfig описывает страницу профиля, которую зеркалим
type SourceConfig struct {
	AccountURL string
	Format     string
}

// MastodonConfig описывает инстанс, куда публикуются посты
type MastodonConfig struct {
	HostInstance    string
	AccessToken     string
	PublishInterval time.Duration
	Timeout         time.Duration
}

// CheckpointConfig описывает хранилище водяной метки
type CheckpointConfig struct {
	Backend     string
	CachePath   string
	Key         string
	DatabaseURL string
}

// TelegramConfig описывает уведомления администратору
type TelegramConfig struct {
	BotToken    string
	AdminChatID int64
}

// LogConfig описывает настройки логгера
type LogConfig struct {
	Level      string
	Format     string
	Output     string
	FilePath   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
}

// HTTPClientConfig представляет конфигурацию HTTP клиента
type HTTPClientConfig struct {
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	IdleConnTimeout       time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	DisableKeepAlives     bool
	Timeout               time.Duration
}

// RetryConfig представляет конфигурацию retry механизма
type RetryConfig struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

// Load загружает конфигурацию из переменных окружения и, если есть, из .env файлов
func Load(envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles...); err != nil {
		return nil, err
	}

	adminChatID, err := getEnvInt64("TELEGRAM_ADMIN_CHAT_ID", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_ADMIN_CHAT_ID: %w", err)
	}

	config := &Config{
		AppName: getEnv("APP_NAME", "tweettoot"),
		Source: SourceConfig{
			AccountURL: getEnv("SOURCE_ACCOUNT_URL", ""),
			Format:     strings.ToLower(getEnv("SOURCE_FORMAT", SourceFormatHTML)),
		},
		Mastodon: MastodonConfig{
			HostInstance:    strings.TrimRight(getEnv("HOST_INSTANCE", ""), "/"),
			AccessToken:     getEnv("APP_SECURE_TOKEN", ""),
			PublishInterval: getEnvDuration("PUBLISH_INTERVAL", 0),
			Timeout:         getEnvDuration("MASTODON_TIMEOUT", 30*time.Second),
		},
		Checkpoint: CheckpointConfig{
			Backend:     strings.ToLower(getEnv("CHECKPOINT_BACKEND", CheckpointBackendFile)),
			CachePath:   getEnv("CACHE_PATH", "./data"),
			Key:         getEnv("CHECKPOINT_KEY", WatermarkFileName),
			DatabaseURL: getEnv("DB_DSN", ""),
		},
		Telegram: TelegramConfig{
			BotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
			AdminChatID: adminChatID,
		},
		HealthPort:         getEnv("HEALTH_PORT", "8080"),
		HealthCheckEnabled: getEnvBool("HEALTH_CHECK_ENABLED", true),
		Schedule:           getEnv("SCHEDULE", "@every 5m"),
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "stdout"),
			FilePath:   getEnv("LOG_PATH", "logs/tweettoot.log"),
			MaxSize:    getEnvInt("LOG_MAX_SIZE", 100),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
			MaxAge:     getEnvInt("LOG_MAX_AGE", 28),
		},
		HTTPClientConfig: HTTPClientConfig{
			MaxIdleConns:          getEnvInt("HTTP_MAX_IDLE_CONNS", 100),
			MaxIdleConnsPerHost:   getEnvInt("HTTP_MAX_IDLE_CONNS_PER_HOST", 10),
			IdleConnTimeout:       getEnvDuration("HTTP_IDLE_CONN_TIMEOUT", 90*time.Second),
			TLSHandshakeTimeout:   getEnvDuration("HTTP_TLS_HANDSHAKE_TIMEOUT", 10*time.Second),
			ResponseHeaderTimeout: getEnvDuration("HTTP_RESPONSE_HEADER_TIMEOUT", 30*time.Second),
			DisableKeepAlives:     getEnvBool("HTTP_DISABLE_KEEP_ALIVES", false),
			Timeout:               getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
		},
		RetryConfig: RetryConfig{
			MaxRetries:        getEnvInt("RETRY_MAX_RETRIES", 0),
			InitialDelay:      getEnvDuration("RETRY_INITIAL_DELAY", 1*time.Second),
			MaxDelay:          getEnvDuration("RETRY_MAX_DELAY", 30*time.Second),
			BackoffMultiplier: getEnvFloat("RETRY_BACKOFF_MULTIPLIER", 2.0),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// loadEnvFiles загружает .env файлы. Отсутствующий .env по умолчанию не ошибка,
// явно указанные файлы должны существовать.
func loadEnvFiles(envFiles ...string) error {
	err := godotenv.Load(envFiles...)
	if err == nil {
		return nil
	}
	if len(envFiles) == 0 && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load env file: %w", err)
}

// Validate проверяет значения, без которых приложение не запустится.
// Пустые URL источника и инстанса проверяются в момент вызова компонентов.
func (c *Config) Validate() error {
	switch c.Source.Format {
	case SourceFormatHTML, SourceFormatRSS:
	default:
		return fmt.Errorf("unsupported SOURCE_FORMAT %q", c.Source.Format)
	}

	switch c.Checkpoint.Backend {
	case CheckpointBackendFile:
	case CheckpointBackendPostgres:
		if c.Checkpoint.DatabaseURL == "" {
			return fmt.Errorf("DB_DSN is required for %s checkpoint backend", CheckpointBackendPostgres)
		}
	default:
		return fmt.Errorf("unsupported CHECKPOINT_BACKEND %q", c.Checkpoint.Backend)
	}

	if c.Checkpoint.Key == "" {
		return fmt.Errorf("CHECKPOINT_KEY must not be empty")
	}

	if c.RetryConfig.MaxRetries < 0 {
		return fmt.Errorf("RETRY_MAX_RETRIES must not be negative")
	}

	if c.Mastodon.PublishInterval < 0 {
		return fmt.Errorf("PUBLISH_INTERVAL must not be negative")
	}

	return nil
}

var (
	_ model.Validator = SourceConfig{}
	_ model.Validator = MastodonConfig{}
)

// Validate проверяет, что источник задан и похож на http(s) URL
func (s SourceConfig) Validate() error {
	if strings.TrimSpace(s.AccountURL) == "" {
		return ErrMissingSourceURL
	}
	return model.ValidateURL("SOURCE_ACCOUNT_URL", s.AccountURL)
}

// Validate проверяет, что заданы инстанс и токен
func (m MastodonConfig) Validate() error {
	if strings.TrimSpace(m.HostInstance) == "" {
		return ErrMissingHostInstance
	}
	if err := model.ValidateURL("HOST_INSTANCE", m.HostInstance); err != nil {
		return err
	}
	if strings.TrimSpace(m.AccessToken) == "" {
		return ErrMissingAccessToken
	}
	return nil
}

// TelegramEnabled сообщает, настроены ли уведомления в Telegram
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.AdminChatID != 0
}

// getEnv получает переменную окружения с значением по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvInt64 получает переменную окружения как int64, в отличие от getEnvInt не глотает ошибку
func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.ParseInt(value, 10, 64)
}

// getEnvDuration получает переменную окружения как time.Duration
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvBool получает переменную окружения как bool
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvFloat получает переменную окружения как float64
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
