package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names, kept in one place so tests and deploy
// manifests stay in sync.
const (
	EnvAppEnv       = "STOREFRONT_APP_ENV"
	EnvPort         = "STOREFRONT_APP_PORT"
	EnvLogLevel     = "STOREFRONT_LOG_LEVEL"
	EnvOzonClientID = "STOREFRONT_OZON_CLIENT_ID"
	EnvOzonAPIKey   = "STOREFRONT_OZON_API_KEY"
	EnvRedisURL     = "STOREFRONT_REDIS_URL"
)

type Config struct {
	App          AppConfig
	Catalog      CatalogConfig
	Ozon         OzonConfig
	Redis        RedisConfig
	RefreshLimit RefreshRateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type CatalogConfig struct {
	ListLimit      int  `envconfig:"STOREFRONT_CATALOG_LIST_LIMIT" default:"100"`
	RefreshOnStart bool `envconfig:"STOREFRONT_CATALOG_REFRESH_ON_START" default:"true"`
}

type OzonConfig struct {
	BaseURL  string        `envconfig:"STOREFRONT_OZON_BASE_URL" default:"https://api-seller.ozon.ru"`
	ClientID string        `envconfig:"STOREFRONT_OZON_CLIENT_ID" required:"true"`
	APIKey   string        `envconfig:"STOREFRONT_OZON_API_KEY" required:"true"`
	Timeout  time.Duration `envconfig:"STOREFRONT_OZON_TIMEOUT" default:"15s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all. The
// server runs without redis; only the refresh rate limit needs it.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type RefreshRateLimitConfig struct {
	Window  time.Duration `envconfig:"STOREFRONT_REFRESH_RATE_LIMIT_WINDOW" default:"1m"`
	IPLimit int           `envconfig:"STOREFRONT_REFRESH_RATE_LIMIT_IP_LIMIT" default:"5"`
}
