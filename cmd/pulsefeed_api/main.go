package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dstanisic/pulsefeed/internal/analysis"
	"github.com/dstanisic/pulsefeed/internal/router"
	"github.com/dstanisic/pulsefeed/internal/server"
	"github.com/dstanisic/pulsefeed/internal/service"
	"github.com/dstanisic/pulsefeed/internal/storage/pg"
	"github.com/labstack/echo/v4"
	"github.com/sashabaranov/go-openai"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load server config", "error", err)
		os.Exit(1)
	}

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: cfg.DatabaseURL})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	articleStore := pg.NewArticleStore(pool)
	topicStore := pg.NewTopicStore(pool)
	sourceStore := pg.NewSourceStore(pool)
	profileStore := pg.NewProfileStore(pool)

	articles := service.NewArticleService(articleStore, topicStore, sourceStore, profileStore, cfg.Retrieval)
	profiles := service.NewProfileService(profileStore)
	registry := service.NewTopicRegistry(topicStore)

	aiClient := openai.NewClient(cfg.OpenAIAPIKey)
	orchestrator := analysis.NewOrchestrator(aiClient, registry, articles, cfg.Analysis)

	e := echo.New()
	e.HideBanner = true

	s := server.NewServer(e, sCfg, pool)

	router.NewArticleRouter(e, articles, orchestrator).Bind()
	router.NewProfileRouter(e, profiles).Bind()
	router.NewSourceRouter(e, sourceStore, topicStore).Bind()

	if err := s.Start(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}
