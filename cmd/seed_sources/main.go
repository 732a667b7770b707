package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dstanisic/pulsefeed/internal/apperr"
	"github.com/dstanisic/pulsefeed/internal/domain"
	"github.com/dstanisic/pulsefeed/internal/reader"
	"github.com/dstanisic/pulsefeed/internal/storage/pg"
	"github.com/dstanisic/pulsefeed/pkg/config/env"
)

// Registers feed sources from a YAML file. Already-registered feed urls
// are skipped, so the job is safe to rerun.
func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	filePath := flag.String("file", "cmd/seed_sources/sources.yaml", "path to the sources YAML file")
	flag.Parse()

	if err := env.LoadDotEnv(os.Getenv("ENV"), "cmd/seed_sources/.env"); err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		slog.Error("DATABASE_URL environment variable is not set")
		os.Exit(1)
	}

	if err := run(context.Background(), dbURL, *filePath); err != nil {
		slog.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, dbURL, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open sources file: %w", err)
	}
	defer f.Close()

	file, err := reader.NewYAMLSourcesLoader(f).Load(true)
	if err != nil {
		return fmt.Errorf("failed to load sources file: %w", err)
	}

	pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: dbURL})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	sourceStore := pg.NewSourceStore(pool)

	var created, skipped int
	for _, entry := range file.Sources {
		src := &domain.RssSource{
			Name:    entry.Name,
			FeedURL: entry.FeedURL,
		}
		if err := sourceStore.Insert(ctx, src); err != nil {
			var conflict *apperr.ConflictError
			if errors.As(err, &conflict) {
				slog.Info("Source already registered, skipping", "name", entry.Name, "feedUrl", entry.FeedURL)
				skipped++
				continue
			}
			return fmt.Errorf("failed to insert source %q: %w", entry.Name, err)
		}
		slog.Info("Registered source", "name", src.Name, "id", src.ID)
		created++
	}

	slog.Info("Seeding finished", "created", created, "skipped", skipped)
	return nil
}
