package main

import (
	"log/slog"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-board/internal/assistant"
	"github.com/DjordjeVuckovic/news-board/internal/cache"
	"github.com/DjordjeVuckovic/news-board/internal/newsapi"
	"github.com/DjordjeVuckovic/news-board/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_LoadDefaults(t *testing.T) {
	t.Setenv("ENV_PATH", "testdata/missing.env")
	t.Setenv("STORAGE_TYPE", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := (&AppConfig{ENV: "test"}).Load()
	require.NoError(t, err)

	assert.Equal(t, storage.InMem, cfg.StorageConfig.Type)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, newsapi.DefaultBaseURL, cfg.News.BaseURL)
	assert.Equal(t, assistant.DefaultModel, cfg.Assistant.Model)
	assert.Equal(t, assistant.DefaultAssistantName, cfg.Assistant.Name)
	assert.InDelta(t, 0.7, cfg.Assistant.Temperature, 0.0001)
	assert.Equal(t, assistant.DefaultRetryPolicy(), cfg.Assistant.Retry)
	assert.False(t, cfg.Assistant.CacheEnabled)
	assert.Equal(t, cache.DefaultMaxAge, cfg.CacheMaxAge)
	assert.Equal(t, cache.SessionMaxAge, cfg.SessionMaxAge)
	assert.Equal(t, 100, cfg.RateLimit.Max)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
}

func TestAppConfig_LoadOverrides(t *testing.T) {
	t.Setenv("ENV_PATH", "testdata/missing.env")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("ASSISTANT_MODEL", "grok-beta")
	t.Setenv("ASSISTANT_TEMPERATURE", "0.2")
	t.Setenv("ASSISTANT_TIMEOUT", "5s")
	t.Setenv("ASSISTANT_MAX_RETRIES", "0")
	t.Setenv("ASSISTANT_CACHE_ENABLED", "true")
	t.Setenv("CACHE_MAX_AGE", "1m")
	t.Setenv("RATE_LIMIT_MAX", "10")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")

	cfg, err := (&AppConfig{ENV: "test"}).Load()
	require.NoError(t, err)

	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, "grok-beta", cfg.Assistant.Model)
	assert.InDelta(t, 0.2, cfg.Assistant.Temperature, 0.0001)
	assert.Equal(t, 5*time.Second, cfg.Assistant.Retry.Timeout)
	assert.Zero(t, cfg.Assistant.Retry.MaxRetries)
	assert.True(t, cfg.Assistant.CacheEnabled)
	assert.Equal(t, time.Minute, cfg.CacheMaxAge)
	assert.Equal(t, 10, cfg.RateLimit.Max)
}

func TestAppConfig_LoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "duration", key: "CACHE_MAX_AGE", value: "five minutes"},
		{name: "int", key: "ASSISTANT_MAX_RETRIES", value: "two"},
		{name: "float", key: "ASSISTANT_TEMPERATURE", value: "warm"},
		{name: "level", key: "LOG_LEVEL", value: "loud"},
		{name: "rate limit", key: "RATE_LIMIT_MAX", value: "0"},
		{name: "storage", key: "STORAGE_TYPE", value: "redis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENV_PATH", "testdata/missing.env")
			t.Setenv(tt.key, tt.value)

			_, err := (&AppConfig{ENV: "test"}).Load()
			assert.Error(t, err)
		})
	}
}
