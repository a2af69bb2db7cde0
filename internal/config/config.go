package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL    string        `env:"DATABASE_URL,required,notEmpty"`
	ServerPort     string        `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"json"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	// Секрет HS256 для проверки токенов сессии от провайдера идентификации
	IdentityJWTSecret string `env:"IDENTITY_JWT_SECRET"`

	S3 struct {
		Endpoint        string `env:"S3_ENDPOINT"`
		AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
		Bucket          string `env:"S3_BUCKET" envDefault:"assets"`
		Region          string `env:"S3_REGION" envDefault:"us-east-1"`
		UseSSL          bool   `env:"S3_USE_SSL"`
	}

	// Базовый URL, по которому публично раздаются файлы из asset/
	PublicAssetBaseURL string `env:"PUBLIC_ASSET_BASE_URL"`

	// Пустой URL отключает уведомления о модерации
	RabbitMQ struct {
		URL       string `env:"RABBITMQ_URL"`
		QueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"asset_moderation_events"`
	}
	WebhookURL string `env:"WEBHOOK_URL"`

	RestrictedRegions  []string `env:"RESTRICTED_REGIONS" envSeparator:","`
	RegionHeader       string   `env:"REGION_HEADER" envDefault:"CF-IPCountry"`
	RateLimitPerMinute int      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"120"`
	CORSOrigins        []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	// X-Forwarded-For и X-Real-IP учитываются только за доверенным прокси
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS"`
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	return &cfg, nil
}

// Validate проверяет параметры, обязательные для режима запуска.
func (c *Config) Validate(mode string) error {
	var errs []error
	switch mode {
	case "server":
		if c.IdentityJWTSecret == "" {
			errs = append(errs, errors.New("IDENTITY_JWT_SECRET is required"))
		}
		if c.S3.Endpoint == "" || c.S3.AccessKeyID == "" || c.S3.SecretAccessKey == "" {
			errs = append(errs, errors.New("S3_ENDPOINT, S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY are required"))
		}
		if c.RateLimitPerMinute < 0 {
			errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must not be negative"))
		}
	case "worker":
		if c.RabbitMQ.URL == "" {
			errs = append(errs, errors.New("RABBITMQ_URL is required"))
		}
	}
	return errors.Join(errs...)
}
