package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "inkwell", cfg.Database.Name)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Session.CookieSecure)
	assert.Len(t, cfg.Server.AllowOrigins, 2)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("POSTGRES_DB", "other")
	t.Setenv("SESSION_COOKIE_SECURE", "false")
	t.Setenv("PREVIEW_TTL_MINUTES", "15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "other", cfg.Database.Name)
	assert.False(t, cfg.Session.CookieSecure)
	assert.Equal(t, 15, cfg.Preview.TTLMin)
}

func TestLoadTestConfig(t *testing.T) {
	cfg := LoadTestConfig()

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "inkwell_test", cfg.Database.Name)
	assert.Equal(t, "test-preview-secret", cfg.Preview.Secret)
}
