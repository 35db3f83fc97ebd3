package config

import (
	"context"
	"sync"
	"xtopay-checkout/internal/common/enum"
	database "xtopay-checkout/internal/pkg/db"
	"xtopay-checkout/internal/pkg/rabbitmq"
	"xtopay-checkout/internal/pkg/redis"
)

// Config holds all application configuration loaded from environment variables
type Config struct {
	AppEnv     enum.EnvEnum `env:"APP_ENV" envDefault:"development"`
	AppPort    int          `env:"APP_PORT" envDefault:"8080"`
	AppBaseURL string       `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// External collaborators. Missing vendor credentials surface as upstream
	// auth failures at request time, not at startup.
	MerchantAPIBase string `env:"MERCHANT_API_BASE" envDefault:"https://api.xtopay.com"`
	KairosBaseURL   string `env:"KAIROS_BASE_URL" envDefault:"https://api.kairosafrika.com/v1"`
	KairosAPIKey    string `env:"KAIROS_API_KEY" envDefault:""`
	KairosAPISecret string `env:"KAIROS_API_SECRET" envDefault:""`

	// Webhook delivery for terminal outcomes; empty URL disables the worker.
	WebhookURL    string `env:"MERCHANT_WEBHOOK_URL" envDefault:""`
	WebhookSecret string `env:"MERCHANT_WEBHOOK_SECRET" envDefault:""`

	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisUser     string `env:"REDIS_USER" envDefault:"default"`
	RedisPass     string `env:"REDIS_PASS" envDefault:""`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RabbitHost    string `env:"RABBIT_HOST" envDefault:"localhost"`
	RabbitPort    int    `env:"RABBIT_PORT" envDefault:"5672"`
	RabbitUser    string `env:"RABBIT_USER" envDefault:"guest"`
	RabbitPass    string `env:"RABBIT_PASS" envDefault:"guest"`
	DBHost        string `env:"DB_HOST" envDefault:"localhost"`
	DBPort        int    `env:"DB_PORT" envDefault:"5432"`
	DBUser        string `env:"DB_USER" envDefault:"postgres"`
	DBPass        string `env:"DB_PASS" envDefault:""`
	DBName        string `env:"DB_NAME" envDefault:"xtopay_checkout"`
}

// SetupServerDto contains dependencies for server setup
type SetupServerDto struct {
	Ctx    *context.Context
	Cancel context.CancelFunc
	Wg     *sync.WaitGroup
	Env    *Config
	Db     *database.Database
	Rds    redis.IRedis
	Rb     *rabbitmq.ConnectionManager
}
