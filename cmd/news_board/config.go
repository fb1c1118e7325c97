package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/news-board/internal/assistant"
	"github.com/DjordjeVuckovic/news-board/internal/cache"
	"github.com/DjordjeVuckovic/news-board/internal/newsapi"
	"github.com/DjordjeVuckovic/news-board/internal/storage/factory"
	"github.com/DjordjeVuckovic/news-board/pkg/config/env"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultRateLimitMax    = 100
	defaultRateLimitWindow = 15 * time.Minute
	defaultNewsTimeout     = 15 * time.Second
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("APP_ENV"),
	}
}

type NewsConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type AssistantConfig struct {
	Name         string
	BaseURL      string
	APIKey       string
	Model        string
	Temperature  float32
	Retry        assistant.RetryPolicy
	CacheEnabled bool
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

type NewsBoardConfig struct {
	LogLevel      slog.Level
	StorageConfig factory.StorageConfig
	News          NewsConfig
	Assistant     AssistantConfig
	RateLimit     RateLimitConfig
	CacheMaxAge   time.Duration
	SessionMaxAge time.Duration
	UsersFile     string
	BcryptCost    int
}

func (as *AppConfig) Load() (*NewsBoardConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/news_board/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	cfg := &NewsBoardConfig{
		StorageConfig: *storageCfg,
		UsersFile:     os.Getenv("USERS_FILE"),
		BcryptCost:    bcrypt.DefaultCost,
		News: NewsConfig{
			BaseURL: envOr("NEWS_API_BASE_URL", newsapi.DefaultBaseURL),
			APIKey:  os.Getenv("NEWS_API_KEY"),
		},
		Assistant: AssistantConfig{
			Name:    envOr("ASSISTANT_NAME", assistant.DefaultAssistantName),
			BaseURL: envOr("ASSISTANT_BASE_URL", assistant.DefaultBaseURL),
			APIKey:  os.Getenv("XAI_API_KEY"),
			Model:   envOr("ASSISTANT_MODEL", assistant.DefaultModel),
		},
	}

	if cfg.LogLevel, err = parseLevel(envOr("LOG_LEVEL", "debug")); err != nil {
		return nil, err
	}
	if cfg.News.Timeout, err = envDuration("NEWS_API_TIMEOUT", defaultNewsTimeout); err != nil {
		return nil, err
	}
	if cfg.CacheMaxAge, err = envDuration("CACHE_MAX_AGE", cache.DefaultMaxAge); err != nil {
		return nil, err
	}
	if cfg.SessionMaxAge, err = envDuration("SESSION_MAX_AGE", cache.SessionMaxAge); err != nil {
		return nil, err
	}

	temperature, err := envFloat("ASSISTANT_TEMPERATURE", float64(assistant.DefaultTemperature))
	if err != nil {
		return nil, err
	}
	cfg.Assistant.Temperature = float32(temperature)

	retry := assistant.DefaultRetryPolicy()
	if retry.Timeout, err = envDuration("ASSISTANT_TIMEOUT", retry.Timeout); err != nil {
		return nil, err
	}
	if retry.Delay, err = envDuration("ASSISTANT_RETRY_DELAY", retry.Delay); err != nil {
		return nil, err
	}
	if retry.MaxRetries, err = envInt("ASSISTANT_MAX_RETRIES", retry.MaxRetries); err != nil {
		return nil, err
	}
	cfg.Assistant.Retry = retry
	cfg.Assistant.CacheEnabled = os.Getenv("ASSISTANT_CACHE_ENABLED") == "true"

	if cfg.RateLimit.Max, err = envInt("RATE_LIMIT_MAX", defaultRateLimitMax); err != nil {
		return nil, err
	}
	if cfg.RateLimit.Window, err = envDuration("RATE_LIMIT_WINDOW", defaultRateLimitWindow); err != nil {
		return nil, err
	}
	if cfg.RateLimit.Max <= 0 || cfg.RateLimit.Window <= 0 {
		return nil, fmt.Errorf("rate limit must be positive, got %d per %s", cfg.RateLimit.Max, cfg.RateLimit.Window)
	}

	if cfg.News.APIKey == "" {
		slog.Warn("NEWS_API_KEY is not set, article searches will be rejected upstream")
	}
	if cfg.Assistant.APIKey == "" {
		slog.Warn("XAI_API_KEY is not set, assistant requests will be rejected upstream")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return l, nil
}
