package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(newViper())
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.API.Timeout)
	assert.Equal(t, "file", cfg.Session.Backend)
	assert.Equal(t, "8090", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Server.LoginAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Server.LoginWindow)
	assert.Equal(t, time.Minute, cfg.Cache.StaleTime)
	assert.Equal(t, 30*time.Minute, cfg.Cache.ReferenceStaleTime)
	assert.Equal(t, 30*time.Second, cfg.Cache.UnreadInterval)
	assert.NotEmpty(t, cfg.Session.File)
	assert.True(t, cfg.Session.SecretGenerated)
	assert.Len(t, cfg.Session.Secret, 64)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com/")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("SESSION_BACKEND", "REDIS")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("UNREAD_REFRESH_INTERVAL", "10s")

	cfg, err := load(newViper())
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, "s3cret", cfg.Session.Secret)
	assert.False(t, cfg.Session.SecretGenerated)
	assert.Equal(t, 10*time.Second, cfg.Cache.UnreadInterval)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value, msg string
	}{
		{"API_TIMEOUT", "soon", "invalid API_TIMEOUT"},
		{"CACHE_STALE_TIME", "-1m", "must be positive"},
		{"SERVER_PORT", "70000", "invalid SERVER_PORT"},
		{"SESSION_BACKEND", "cookie", "invalid SESSION_BACKEND"},
		{"LOGIN_RATE_LIMIT", "0", "invalid LOGIN_RATE_LIMIT"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := load(newViper())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadWarnsAboutMissingEnvFile(t *testing.T) {
	cfg, err := loadEnv(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	require.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "error loading .env file")
}
