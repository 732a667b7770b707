package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/dstanisic/pulsefeed/internal/analysis"
	"github.com/dstanisic/pulsefeed/internal/service"
	"github.com/dstanisic/pulsefeed/internal/storage/pg"
	"github.com/sashabaranov/go-openai"
)

// One-shot job: classify articles that are still missing a sentiment.
// Meant to run from cron or by hand after a backfill.
func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	batchSize := flag.Int("batch", 50, "max articles to analyze in one run")
	flag.Parse()

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

	articles := service.NewArticleService(articleStore, topicStore, sourceStore, profileStore, service.RetrievalConfig{})
	registry := service.NewTopicRegistry(topicStore)

	aiClient := openai.NewClient(cfg.OpenAIAPIKey)
	orchestrator := analysis.NewOrchestrator(aiClient, registry, articles, cfg.Analysis)

	ids, err := articleStore.ListPendingAnalysis(ctx, *batchSize)
	if err != nil {
		slog.Error("Failed to list pending articles", "error", err)
		os.Exit(1)
	}
	if len(ids) == 0 {
		slog.Info("No articles pending analysis")
		return
	}
	slog.Info("Analyzing articles", "count", len(ids))

	items := orchestrator.AnalyzeBatch(ctx, ids)

	var analyzed, failed int
	for _, item := range items {
		if item.Err != nil {
			failed++
			continue
		}
		analyzed++
	}
	slog.Info("Analysis run finished", "analyzed", analyzed, "failed", failed)

	if failed > 0 {
		os.Exit(1)
	}
}
