package dto

import (
	"strings"
	"time"

	"github.com/dstanisic/pulsefeed/internal/apperr"
	"github.com/dstanisic/pulsefeed/internal/domain"
	"github.com/google/uuid"
)

type CreateArticleCommand struct {
	SourceID        uuid.UUID         `json:"sourceId"`
	Title           string            `json:"title"`
	Link            string            `json:"link"`
	PublicationDate time.Time         `json:"publicationDate"`
	Description     *string           `json:"description,omitempty"`
	Sentiment       *domain.Sentiment `json:"sentiment,omitempty"`
	TopicIDs        []uuid.UUID       `json:"topicIds,omitempty"`
}

func (c *CreateArticleCommand) Validate() error {
	if c.SourceID == uuid.Nil {
		return apperr.NewValidation("sourceId is required")
	}
	if strings.TrimSpace(c.Title) == "" {
		return apperr.NewValidation("title is required")
	}
	if strings.TrimSpace(c.Link) == "" {
		return apperr.NewValidation("link is required")
	}
	if c.PublicationDate.IsZero() {
		return apperr.NewValidation("publicationDate is required")
	}
	if c.Sentiment != nil && !c.Sentiment.Valid() {
		return apperr.NewValidation("sentiment must be positive, neutral or negative")
	}
	for _, id := range c.TopicIDs {
		if id == uuid.Nil {
			return apperr.NewValidation("topicIds must not contain the nil id")
		}
	}
	return nil
}

// UpdateArticlePatch applies only-present-fields-update semantics:
// a sentiment sent as explicit null clears the label, an absent field
// leaves the current value untouched.
type UpdateArticlePatch struct {
	Sentiment Optional[domain.Sentiment] `json:"sentiment"`
	TopicIDs  Optional[[]uuid.UUID]      `json:"topicIds"`
}

func (p *UpdateArticlePatch) Validate() error {
	if !p.Sentiment.Set() && !p.TopicIDs.Set() {
		return apperr.NewValidation("patch must contain at least one field")
	}
	if s, ok := p.Sentiment.Value(); ok && !s.Valid() {
		return apperr.NewValidation("sentiment must be positive, neutral or negative")
	}
	if p.TopicIDs.IsNull() {
		return apperr.NewValidation("topicIds cannot be null, send an empty list to clear")
	}
	if ids, ok := p.TopicIDs.Value(); ok {
		for _, id := range ids {
			if id == uuid.Nil {
				return apperr.NewValidation("topicIds must not contain the nil id")
			}
		}
	}
	return nil
}

// BatchOptions tunes batch ingestion. SkipSourceValidation trades the
// source existence round trip for trust in a caller that already verified
// it, e.g. repeated batches from the same feed.
type BatchOptions struct {
	SkipSourceValidation bool
}

type UpsertProfileCommand struct {
	Mood                   *domain.Sentiment `json:"mood,omitempty"`
	Blocklist              []string          `json:"blocklist"`
	PersonalizationEnabled bool              `json:"personalizationEnabled"`
}

func (c *UpsertProfileCommand) Validate() error {
	if c.Mood != nil && !c.Mood.Valid() {
		return apperr.NewValidation("mood must be positive, neutral or negative")
	}
	for _, fragment := range c.Blocklist {
		if strings.TrimSpace(fragment) == "" {
			return apperr.NewValidation("blocklist fragments must not be blank")
		}
	}
	return nil
}

type CreateSourceCommand struct {
	Name    string `json:"name"`
	FeedURL string `json:"feedUrl"`
}

func (c *CreateSourceCommand) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return apperr.NewValidation("name is required")
	}
	if strings.TrimSpace(c.FeedURL) == "" {
		return apperr.NewValidation("feedUrl is required")
	}
	return nil
}
