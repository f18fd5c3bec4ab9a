package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	AppEnvDevelopment = "development"
	AppEnvProduction  = "production"

	defaultJWTSecret = "dev-secret"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Issuer   IssuerConfig
	Metrics  MetricsConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `envconfig:"APP_NAME" default:"giftcard-service"`
	Env                   string `envconfig:"APP_ENV" default:"development"`
	Host                  string `envconfig:"APP_HOST" default:"0.0.0.0"`
	Port                  string `envconfig:"APP_PORT" default:"8080"`
	Version               string `envconfig:"APP_VERSION" default:"dev"`
	RequestTimeoutSeconds int    `envconfig:"HTTP_REQUEST_TIMEOUT_SECONDS" default:"30"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `envconfig:"POSTGRES_DSN"`
	MaxConns       int32  `envconfig:"POSTGRES_MAX_CONNS" default:"10"`
	MinConns       int32  `envconfig:"POSTGRES_MIN_CONNS" default:"2"`
	RunMigrations  bool   `envconfig:"POSTGRES_RUN_MIGRATIONS" default:"true"`
	ConnMaxIdleSec int32  `envconfig:"POSTGRES_CONN_MAX_IDLE_SECONDS" default:"30"`
	ConnMaxLifeSec int32  `envconfig:"POSTGRES_CONN_MAX_LIFE_SECONDS" default:"300"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr      string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	Password  string `envconfig:"REDIS_PASSWORD"`
	DB        int    `envconfig:"REDIS_DB" default:"0"`
	KeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"giftcards"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string `envconfig:"AUTH_JWT_SECRET" default:"dev-secret"`
	AccessTokenTTLMinutes int    `envconfig:"AUTH_ACCESS_TOKEN_TTL_MINUTES" default:"1440"`
	BcryptCost            int    `envconfig:"AUTH_BCRYPT_COST" default:"12"`
}

// IssuerConfig configures the gift card code issuer.
type IssuerConfig struct {
	APIKey         string `envconfig:"ISSUER_API_KEY"`
	TimeoutSeconds int    `envconfig:"ISSUER_TIMEOUT_SECONDS" default:"10"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"METRICS_PATH" default:"/metrics"`
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations that must never reach production.
func (c *Config) Validate() error {
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("invalid AUTH_BCRYPT_COST: %d", c.Auth.BcryptCost)
	}
	if c.App.IsProduction() {
		if c.Auth.JWTSecret == "" || c.Auth.JWTSecret == defaultJWTSecret {
			return errors.New("AUTH_JWT_SECRET must be set in production")
		}
		if c.Postgres.DSN == "" {
			return errors.New("POSTGRES_DSN must be set in production")
		}
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, AppEnvProduction)
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTokenTTL returns how long sessions and their tokens stay valid.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	if a.AccessTokenTTLMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// Timeout bounds a single issuer call.
func (i IssuerConfig) Timeout() time.Duration {
	if i.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(i.TimeoutSeconds) * time.Second
}
