// Package main News Board API
// @title News Board API
// @version 1.0
// @description Personalized news dashboard backed by a news search API and a chat assistant
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.email support@newsboard.dev
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	_ "github.com/DjordjeVuckovic/news-board/docs"
	"github.com/DjordjeVuckovic/news-board/internal/api/router"
	"github.com/DjordjeVuckovic/news-board/internal/api/server"
	"github.com/DjordjeVuckovic/news-board/internal/assistant"
	"github.com/DjordjeVuckovic/news-board/internal/cache"
	"github.com/DjordjeVuckovic/news-board/internal/middleware"
	"github.com/DjordjeVuckovic/news-board/internal/newsapi"
	"github.com/DjordjeVuckovic/news-board/internal/session"
	"github.com/DjordjeVuckovic/news-board/internal/storage/factory"
	"github.com/DjordjeVuckovic/news-board/internal/workspace"
	pkgmw "github.com/DjordjeVuckovic/news-board/pkg/middleware"
	"github.com/labstack/echo/v4"
)

const storageStartupTimeout = 30 * time.Second

func main() {
	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}
	slog.SetLogLoggerLevel(cfg.LogLevel)

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), storageStartupTimeout)
	backend, err := factory.NewKV(startCtx, &cfg.StorageConfig)
	cancel()
	if err != nil {
		slog.Error("Failed to open storage", "type", cfg.StorageConfig.Type, "error", err)
		os.Exit(1)
	}

	s := server.New(sCfg, backend.Health).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupOpenApi("/swagger/*").
		SetupMetrics("/metrics")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "News Board API is running")
	})

	users, err := session.LoadUsers(cfg.UsersFile, cfg.BcryptCost)
	if err != nil {
		slog.Error("Failed to load users", "error", err)
		os.Exit(1)
	}
	sessions := session.NewManager(users, session.NewSessionCache(cfg.SessionMaxAge))

	newsClient, err := newsapi.NewClient(cfg.News.BaseURL, cfg.News.APIKey, newsapi.WithTimeout(cfg.News.Timeout))
	if err != nil {
		slog.Error("Failed to create news client", "error", err)
		os.Exit(1)
	}
	searcher := newsapi.NewCachedSearcher(newsClient, cache.New[*newsapi.Result]("articles", cfg.CacheMaxAge))

	completer := assistant.NewOpenAIClient(
		cfg.Assistant.BaseURL,
		cfg.Assistant.APIKey,
		assistant.WithModel(cfg.Assistant.Model),
		assistant.WithTemperature(cfg.Assistant.Temperature),
	)

	pipelineOpts := []assistant.Option{
		assistant.WithAssistantName(cfg.Assistant.Name),
		assistant.WithRequestDefaults(cfg.Assistant.Model, cfg.Assistant.Temperature),
	}
	if cfg.Assistant.CacheEnabled {
		pipelineOpts = append(pipelineOpts, assistant.WithReplyCache(cache.New[*assistant.Reply]("assistant", cfg.CacheMaxAge)))
		slog.Info("Assistant reply cache enabled", "maxAge", cfg.CacheMaxAge)
	}
	pipeline := assistant.NewPipeline(
		assistant.NewRetrier(completer, cfg.Assistant.Retry),
		searcher,
		pipelineOpts...,
	)

	registry := workspace.NewRegistry(backend.KV)

	router.NewAuthRouter(s.Echo, sessions).Bind()

	limiter := pkgmw.NewRateLimiter(s.Context(), cfg.RateLimit.Max, cfg.RateLimit.Window)
	api := s.Echo.Group("/api", limiter.Middleware(), middleware.RequireSession(sessions))

	router.NewNewsRouter(api, searcher).Bind()
	router.NewAssistantRouter(api, completer, pipeline, registry).Bind()
	router.NewCardsRouter(api, registry, pipeline).Bind()
	router.NewWorkspaceRouter(api, registry).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	err = s.Start()
	backend.Close()
	if err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
