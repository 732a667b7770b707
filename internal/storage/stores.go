package storage

import (
	"context"

	"github.com/dstanisic/pulsefeed/internal/domain"
	"github.com/google/uuid"
)

// ArticleFilter is the storage-side filter set for listing articles.
// Every field here is pushed into the query; blocklist filtering is not
// expressible as a column predicate and stays in the service layer.
type ArticleFilter struct {
	Sentiment *domain.Sentiment
	TopicID   *uuid.UUID
	SourceID  *uuid.UUID
	SortBy    string
	SortDesc  bool
	Limit     int
	Offset    int
}

type ArticleStore interface {
	// List returns articles hydrated with their source and topics in a
	// single round trip.
	List(ctx context.Context, f ArticleFilter) ([]domain.Article, error)
	Count(ctx context.Context, f ArticleFilter) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	// Insert persists a new article; a duplicate link surfaces as a
	// ConflictError.
	Insert(ctx context.Context, a *domain.Article) error
	// UpsertBatch inserts articles, silently skipping rows whose link
	// already exists, and returns the rows actually inserted.
	UpsertBatch(ctx context.Context, articles []domain.Article) ([]domain.Article, error)
	UpdateSentiment(ctx context.Context, id uuid.UUID, sentiment *domain.Sentiment) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListPendingAnalysis returns ids of articles that have no sentiment
	// yet, oldest first.
	ListPendingAnalysis(ctx context.Context, limit int) ([]uuid.UUID, error)

	InsertTopicLinks(ctx context.Context, articleID uuid.UUID, topicIDs []uuid.UUID) error
	DeleteTopicLinks(ctx context.Context, articleID uuid.UUID) error
}

type TopicStore interface {
	// FindOrCreate resolves a topic name case-insensitively, creating it
	// when absent. "Climate" and "climate" yield the same topic.
	FindOrCreate(ctx context.Context, name string) (*domain.Topic, error)
	// ExistingIDs returns the subset of ids that exist, in one query.
	ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	List(ctx context.Context) ([]domain.Topic, error)
}

type SourceStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.RssSource, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Insert(ctx context.Context, src *domain.RssSource) error
	List(ctx context.Context) ([]domain.RssSource, error)
}

// ProfileReader is the read side the retrieval engine depends on.
type ProfileReader interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
}

type ProfileStore interface {
	ProfileReader
	Upsert(ctx context.Context, p *domain.Profile) error
	Delete(ctx context.Context, userID string) error
}
