package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("POSTGRES_DSN", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "giftcard-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 10*time.Second, cfg.Issuer.Timeout())
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "15")
	t.Setenv("ISSUER_API_KEY", "key-123")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, "key-123", cfg.Issuer.APIKey)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoadRejectsMalformedNumbers(t *testing.T) {
	t.Setenv("REDIS_DB", "three")

	_, err := Load()
	require.Error(t, err)
}

func TestValidateProductionRequiresSecrets(t *testing.T) {
	cfg := Config{
		App:      AppConfig{Env: AppEnvProduction},
		Postgres: PostgresConfig{DSN: "postgres://localhost/giftcards"},
		Auth:     AuthConfig{JWTSecret: defaultJWTSecret, BcryptCost: 12},
	}
	require.Error(t, cfg.Validate())

	cfg.Auth.JWTSecret = "a-real-secret"
	require.NoError(t, cfg.Validate())

	cfg.Postgres.DSN = ""
	require.Error(t, cfg.Validate())
}

func TestValidateBcryptCostBounds(t *testing.T) {
	cfg := Config{Auth: AuthConfig{BcryptCost: 2}}
	require.Error(t, cfg.Validate())
}
