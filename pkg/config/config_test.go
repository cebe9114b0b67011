package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "production", cfg.App.Env)
	require.True(t, cfg.App.IsProd())

	require.Equal(t, "https://api-seller.ozon.ru", cfg.Ozon.BaseURL)
	require.Equal(t, 15*time.Second, cfg.Ozon.Timeout)

	require.Equal(t, 100, cfg.Catalog.ListLimit)
	require.True(t, cfg.Catalog.RefreshOnStart)

	require.False(t, cfg.Redis.Enabled(), "redis should be disabled without a URL or address")

	require.Equal(t, time.Minute, cfg.RefreshLimit.Window)
	require.Equal(t, 5, cfg.RefreshLimit.IPLimit)
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	require.NoError(t, os.Unsetenv(EnvOzonAPIKey))

	_, err := Load()
	require.Error(t, err, "expected missing required env to return an error")
}

func TestRedisEnabled(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.Redis.Enabled())
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvOzonClientID, "12345")
	t.Setenv(EnvOzonAPIKey, "key-abc")
	os.Unsetenv(EnvRedisURL)
}
