package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dstanisic/pulsefeed/internal/apperr"
	"github.com/dstanisic/pulsefeed/internal/domain"
	"github.com/dstanisic/pulsefeed/internal/dto"
	"github.com/dstanisic/pulsefeed/internal/service"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai"
)

const (
	DefaultModel         = "gpt-4o-mini"
	DefaultTimeout       = 30 * time.Second
	DefaultMaxInputChars = 1500

	maxTopics       = 3
	maxTopicNameLen = 64
	// How much of a bad model response lands in the log.
	rawResponseLogLimit = 300
)

const classificationPrompt = `You classify news articles.
Respond with a single JSON object of the form
{"sentiment": "positive" | "neutral" | "negative", "topics": ["name", ...]}
where topics holds 1 to 3 short topic names. Respond with JSON only, no prose.`

type Config struct {
	Model         string
	Timeout       time.Duration
	MaxInputChars int
}

func (c *Config) applyDefaults() {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxInputChars <= 0 {
		c.MaxInputChars = DefaultMaxInputChars
	}
}

// Orchestrator turns raw article text into a sentiment label and a topic
// set: one classification call, strict response validation, then topic
// upserts and the article update protocol. Retry policy belongs to the
// caller; nothing here retries.
type Orchestrator struct {
	client   CompletionClient
	registry *service.TopicRegistry
	articles *service.ArticleService
	cfg      Config
}

func NewOrchestrator(client CompletionClient, registry *service.TopicRegistry, articles *service.ArticleService, cfg Config) *Orchestrator {
	cfg.applyDefaults()
	return &Orchestrator{
		client:   client,
		registry: registry,
		articles: articles,
		cfg:      cfg,
	}
}

// Result is what the model returned for one article, after validation.
type Result struct {
	Sentiment domain.Sentiment
	Topics    []string
}

func (o *Orchestrator) AnalyzeArticle(ctx context.Context, articleID uuid.UUID) (*domain.Article, error) {
	article, err := o.articles.Get(ctx, articleID)
	if err != nil {
		return nil, err
	}

	result, err := o.Classify(ctx, PrepareText(article.Title, article.Description, o.cfg.MaxInputChars))
	if err != nil {
		return nil, err
	}

	topics, err := o.registry.FindOrCreateAll(ctx, result.Topics)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert topics: %w", err)
	}

	patch := dto.UpdateArticlePatch{
		Sentiment: dto.Some(result.Sentiment),
		TopicIDs:  dto.Some(lo.Map(topics, func(t domain.Topic, _ int) uuid.UUID { return t.ID })),
	}
	return o.articles.Update(ctx, articleID, patch)
}

// Classify sends prepared text to the model and validates the reply
// against the strict response schema. The call is bounded by the
// configured timeout so a hang surfaces as KindRequestTimeout rather than
// a generic failure.
func (o *Orchestrator) Classify(ctx context.Context, text string) (*Result, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model: o.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classificationPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens:   256,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, classifyCallError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, apperr.NewUpstream(apperr.KindResponseInvalidJSON, "completion returned no choices")
	}

	return parseResponse(resp.Choices[0].Message.Content)
}

func parseResponse(raw string) (*Result, error) {
	cleaned := stripCodeFences(strings.TrimSpace(raw))

	var payload struct {
		Sentiment string   `json:"sentiment"`
		Topics    []string `json:"topics"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		slog.Warn("Model returned unparseable response", "raw", truncate(raw, rawResponseLogLimit))
		return nil, apperr.NewUpstreamWrap(apperr.KindResponseInvalidJSON, "model response is not valid JSON", err)
	}

	sentiment, err := domain.ParseSentiment(payload.Sentiment)
	if err != nil {
		return nil, apperr.NewUpstreamWrap(apperr.KindResponseValidationFailed, "model sentiment out of domain", err)
	}

	topics := lo.FilterMap(payload.Topics, func(t string, _ int) (string, bool) {
		trimmed := strings.TrimSpace(t)
		return trimmed, trimmed != ""
	})
	if len(topics) == 0 || len(topics) > maxTopics {
		return nil, apperr.NewUpstream(apperr.KindResponseValidationFailed,
			fmt.Sprintf("model returned %d topics, want 1 to %d", len(topics), maxTopics))
	}
	for _, t := range topics {
		if len(t) > maxTopicNameLen {
			return nil, apperr.NewUpstream(apperr.KindResponseValidationFailed, "model topic name too long")
		}
	}

	return &Result{Sentiment: sentiment, Topics: topics}, nil
}

// BatchItem records one article's outcome; failures never abort the batch.
type BatchItem struct {
	ArticleID uuid.UUID
	Article   *domain.Article
	Err       error
}

func (o *Orchestrator) AnalyzeBatch(ctx context.Context, ids []uuid.UUID) []BatchItem {
	items := make([]BatchItem, 0, len(ids))
	for _, id := range ids {
		article, err := o.AnalyzeArticle(ctx, id)
		if err != nil {
			var ue *apperr.UpstreamError
			if errors.As(err, &ue) {
				slog.Warn("Article analysis failed", "articleId", id, "kind", ue.Kind, "error", err)
			} else {
				slog.Warn("Article analysis failed", "articleId", id, "error", err)
			}
		}
		items = append(items, BatchItem{ArticleID: id, Article: article, Err: err})
	}
	return items
}

// PrepareText builds the model input: title plus body, whitespace
// collapsed, truncated near the model input cap on a rune boundary.
func PrepareText(title string, description *string, maxChars int) string {
	parts := []string{strings.TrimSpace(title)}
	if description != nil && strings.TrimSpace(*description) != "" {
		parts = append(parts, strings.TrimSpace(*description))
	}
	text := strings.Join(strings.Fields(strings.Join(parts, "\n")), " ")
	return truncate(text, maxChars)
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}

func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
