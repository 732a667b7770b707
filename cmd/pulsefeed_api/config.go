package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/dstanisic/pulsefeed/internal/analysis"
	"github.com/dstanisic/pulsefeed/internal/service"
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

type ApiConfig struct {
	DatabaseURL  string
	OpenAIAPIKey string

	Analysis  analysis.Config
	Retrieval service.RetrievalConfig
}

func (as *AppConfig) Load() (*ApiConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/pulsefeed_api/.env")
	if err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		slog.Error("DATABASE_URL environment variable is not set")
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		slog.Error("OPENAI_API_KEY environment variable is not set")
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}

	aiTimeout, err := durationEnv("AI_TIMEOUT", analysis.DefaultTimeout)
	if err != nil {
		return nil, err
	}
	maxInputChars, err := intEnv("AI_MAX_INPUT_CHARS", analysis.DefaultMaxInputChars)
	if err != nil {
		return nil, err
	}
	overfetchFactor, err := intEnv("BLOCKLIST_OVERFETCH_FACTOR", service.DefaultOverfetchFactor)
	if err != nil {
		return nil, err
	}
	overfetchCeiling, err := intEnv("BLOCKLIST_OVERFETCH_CEILING", service.DefaultOverfetchCeiling)
	if err != nil {
		return nil, err
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = analysis.DefaultModel
	}

	return &ApiConfig{
		DatabaseURL:  dbURL,
		OpenAIAPIKey: apiKey,
		Analysis: analysis.Config{
			Model:         model,
			Timeout:       aiTimeout,
			MaxInputChars: maxInputChars,
		},
		Retrieval: service.RetrievalConfig{
			OverfetchFactor:  overfetchFactor,
			OverfetchCeiling: overfetchCeiling,
		},
	}, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 30s: %w", key, err)
	}
	return v, nil
}
