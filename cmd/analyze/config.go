package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dstanisic/pulsefeed/internal/analysis"
	"github.com/dstanisic/pulsefeed/pkg/config/env"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type AnalyzeConfig struct {
	DatabaseURL  string
	OpenAIAPIKey string

	Analysis analysis.Config
}

func (as *AppConfig) Load() (*AnalyzeConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/analyze/.env")
	if err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}

	aiCfg := analysis.Config{
		Model: os.Getenv("OPENAI_MODEL"),
	}
	if raw := os.Getenv("AI_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("AI_TIMEOUT must be a duration like 30s: %w", err)
		}
		aiCfg.Timeout = timeout
	}

	return &AnalyzeConfig{
		DatabaseURL:  dbURL,
		OpenAIAPIKey: apiKey,
		Analysis:     aiCfg,
	}, nil
}
