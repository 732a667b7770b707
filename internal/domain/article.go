package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sentiment is the three-value label produced by AI analysis. A nil
// *Sentiment on an article means it has not been analyzed yet.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

func ParseSentiment(raw string) (Sentiment, error) {
	s := Sentiment(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown sentiment %q", raw)
	}
	return s, nil
}

type Article struct {
	ID              uuid.UUID  `json:"id"`
	SourceID        uuid.UUID  `json:"sourceId"`
	Title           string     `json:"title"`
	Description     *string    `json:"description,omitempty"`
	Link            string     `json:"link"`
	PublicationDate time.Time  `json:"publicationDate"`
	Sentiment       *Sentiment `json:"sentiment,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	// Hydrated on reads, not persisted as columns.
	Source *RssSource `json:"source,omitempty"`
	Topics []Topic    `json:"topics,omitempty"`
}
