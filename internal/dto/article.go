package dto

import (
	"time"

	"github.com/dstanisic/pulsefeed/internal/domain"
	"github.com/dstanisic/pulsefeed/pkg/pagination"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type SourceSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	URL  string    `json:"url"`
}

type TopicSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type Article struct {
	ID              uuid.UUID         `json:"id"`
	Title           string            `json:"title"`
	Description     *string           `json:"description,omitempty"`
	Link            string            `json:"link"`
	PublicationDate time.Time         `json:"publicationDate"`
	Sentiment       *domain.Sentiment `json:"sentiment"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
	Source          *SourceSummary    `json:"source,omitempty"`
	Topics          []TopicSummary    `json:"topics"`
}

func FromDomainArticle(a domain.Article) Article {
	out := Article{
		ID:              a.ID,
		Title:           a.Title,
		Description:     a.Description,
		Link:            a.Link,
		PublicationDate: a.PublicationDate,
		Sentiment:       a.Sentiment,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
		Topics: lo.Map(a.Topics, func(t domain.Topic, _ int) TopicSummary {
			return TopicSummary{ID: t.ID, Name: t.Name}
		}),
	}
	if out.Topics == nil {
		out.Topics = []TopicSummary{}
	}
	if a.Source != nil {
		out.Source = &SourceSummary{ID: a.Source.ID, Name: a.Source.Name, URL: a.Source.FeedURL}
	}
	return out
}

// ArticleList is the retrieval engine's response shape. Pagination totals
// come from the storage-side count and are an upper bound whenever
// BlockedItemsCount is non-zero.
type ArticleList struct {
	Data              []Article           `json:"data"`
	Pagination        pagination.Metadata `json:"pagination"`
	FiltersApplied    FiltersApplied      `json:"filtersApplied"`
	BlockedItemsCount int                 `json:"blockedItemsCount"`
}

type BatchCreateResult struct {
	Created           []Article `json:"created"`
	InsertedCount     int       `json:"insertedCount"`
	DuplicatesSkipped int       `json:"duplicatesSkipped"`
}
