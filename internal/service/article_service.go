package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dstanisic/pulsefeed/internal/apperr"
	"github.com/dstanisic/pulsefeed/internal/domain"
	"github.com/dstanisic/pulsefeed/internal/dto"
	"github.com/dstanisic/pulsefeed/internal/storage"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ArticleService is the ingestion and retrieval engine. The store offers
// no multi-table transaction across the operations used here, so
// multi-step writes run as an explicit step sequence with a compensating
// delete as the rollback.
type ArticleService struct {
	articles storage.ArticleStore
	topics   storage.TopicStore
	sources  storage.SourceStore
	profiles storage.ProfileReader
	cfg      RetrievalConfig
}

func NewArticleService(
	articles storage.ArticleStore,
	topics storage.TopicStore,
	sources storage.SourceStore,
	profiles storage.ProfileReader,
	cfg RetrievalConfig,
) *ArticleService {
	cfg.applyDefaults()
	return &ArticleService{
		articles: articles,
		topics:   topics,
		sources:  sources,
		profiles: profiles,
		cfg:      cfg,
	}
}

func (s *ArticleService) Get(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	return s.articles.GetByID(ctx, id)
}

// Create runs the single-article ingestion saga:
//  1. validate the referenced source exists (abort pre-write)
//  2. validate every referenced topic id exists, fail closed on any
//     invalid id (abort pre-write)
//  3. insert the article; a duplicate link surfaces as a conflict
//  4. insert topic associations; on failure, delete the just-created
//     article and surface a consistency error
//
// After step 4 fails callers never observe the article, at the cost of a
// narrow window in which concurrent readers may see it without topics.
func (s *ArticleService) Create(ctx context.Context, cmd dto.CreateArticleCommand) (*domain.Article, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.sources.Exists(ctx, cmd.SourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate source: %w", err)
	}
	if !exists {
		return nil, apperr.NewNotFound("source", cmd.SourceID.String())
	}

	topicIDs := lo.Uniq(cmd.TopicIDs)
	if len(topicIDs) > 0 {
		if err := s.validateTopicIDs(ctx, topicIDs); err != nil {
			return nil, err
		}
	}

	article := &domain.Article{
		SourceID:        cmd.SourceID,
		Title:           cmd.Title,
		Description:     cmd.Description,
		Link:            cmd.Link,
		PublicationDate: cmd.PublicationDate,
		Sentiment:       cmd.Sentiment,
	}
	if err := s.articles.Insert(ctx, article); err != nil {
		return nil, err
	}

	if len(topicIDs) > 0 {
		if err := s.articles.InsertTopicLinks(ctx, article.ID, topicIDs); err != nil {
			s.compensateCreate(ctx, article.ID)
			return nil, apperr.NewConsistencyWrap("topic association failed", err)
		}
	}

	return s.articles.GetByID(ctx, article.ID)
}

// compensateCreate is the manual undo for a failed association step.
func (s *ArticleService) compensateCreate(ctx context.Context, articleID uuid.UUID) {
	if err := s.articles.Delete(ctx, articleID); err != nil {
		slog.Error("Compensating delete failed, article left without its topic set",
			"articleId", articleID, "error", err)
		return
	}
	slog.Warn("Rolled back article after association failure", "articleId", articleID)
}

// Update applies a partial update. Topic ids are validated before any
// field is written; re-association replaces the topic set wholesale
// (delete-then-insert) and restores the prior sentiment and associations
// if the insert phase fails.
func (s *ArticleService) Update(ctx context.Context, id uuid.UUID, patch dto.UpdateArticlePatch) (*domain.Article, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	current, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newTopicIDs, replaceTopics := patch.TopicIDs.Value()
	if replaceTopics {
		newTopicIDs = lo.Uniq(newTopicIDs)
		if err := s.validateTopicIDs(ctx, newTopicIDs); err != nil {
			return nil, err
		}
	}

	if patch.Sentiment.Set() {
		var sentiment *domain.Sentiment
		if v, ok := patch.Sentiment.Value(); ok {
			sentiment = &v
		}
		if err := s.articles.UpdateSentiment(ctx, id, sentiment); err != nil {
			return nil, err
		}
	}

	if replaceTopics {
		if err := s.replaceTopicLinks(ctx, current, newTopicIDs, patch.Sentiment.Set()); err != nil {
			return nil, err
		}
	}

	return s.articles.GetByID(ctx, id)
}

func (s *ArticleService) replaceTopicLinks(ctx context.Context, prior *domain.Article, topicIDs []uuid.UUID, sentimentChanged bool) error {
	if err := s.articles.DeleteTopicLinks(ctx, prior.ID); err != nil {
		return fmt.Errorf("failed to clear topic associations: %w", err)
	}

	if err := s.articles.InsertTopicLinks(ctx, prior.ID, topicIDs); err != nil {
		s.restoreAfterFailedReassociation(ctx, prior, sentimentChanged)
		return apperr.NewConsistencyWrap("topic association failed", err)
	}
	return nil
}

// restoreAfterFailedReassociation puts back the prior sentiment and topic
// set. Best effort: if the restore itself fails the mismatch is logged and
// the consistency error still surfaces to the caller.
func (s *ArticleService) restoreAfterFailedReassociation(ctx context.Context, prior *domain.Article, sentimentChanged bool) {
	if sentimentChanged {
		if err := s.articles.UpdateSentiment(ctx, prior.ID, prior.Sentiment); err != nil {
			slog.Error("Failed to restore sentiment after association failure",
				"articleId", prior.ID, "error", err)
		}
	}

	priorTopicIDs := lo.Map(prior.Topics, func(t domain.Topic, _ int) uuid.UUID { return t.ID })
	if len(priorTopicIDs) == 0 {
		return
	}
	if err := s.articles.InsertTopicLinks(ctx, prior.ID, priorTopicIDs); err != nil {
		slog.Error("Failed to restore topic associations after association failure",
			"articleId", prior.ID, "error", err)
	}
}

// CreateBatch ingests one feed's new items. All commands must share a
// single source; duplicate links are silently skipped (idempotent
// re-ingestion). Topic associations are not part of batch ingestion, they
// arrive later through analysis.
func (s *ArticleService) CreateBatch(ctx context.Context, cmds []dto.CreateArticleCommand, opts dto.BatchOptions) (*dto.BatchCreateResult, error) {
	if len(cmds) == 0 {
		return nil, apperr.NewValidation("batch must contain at least one command")
	}

	sourceID := cmds[0].SourceID
	for i := range cmds {
		if err := cmds[i].Validate(); err != nil {
			return nil, err
		}
		if cmds[i].SourceID != sourceID {
			return nil, apperr.NewValidation("batch commands must share one sourceId")
		}
	}

	if !opts.SkipSourceValidation {
		exists, err := s.sources.Exists(ctx, sourceID)
		if err != nil {
			return nil, fmt.Errorf("failed to validate source: %w", err)
		}
		if !exists {
			return nil, apperr.NewNotFound("source", sourceID.String())
		}
	}

	articles := lo.Map(cmds, func(cmd dto.CreateArticleCommand, _ int) domain.Article {
		return domain.Article{
			SourceID:        cmd.SourceID,
			Title:           cmd.Title,
			Description:     cmd.Description,
			Link:            cmd.Link,
			PublicationDate: cmd.PublicationDate,
			Sentiment:       cmd.Sentiment,
		}
	})

	inserted, err := s.articles.UpsertBatch(ctx, articles)
	if err != nil {
		return nil, err
	}

	return &dto.BatchCreateResult{
		Created:           lo.Map(inserted, func(a domain.Article, _ int) dto.Article { return dto.FromDomainArticle(a) }),
		InsertedCount:     len(inserted),
		DuplicatesSkipped: len(cmds) - len(inserted),
	}, nil
}

func (s *ArticleService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.articles.Delete(ctx, id)
}

// validateTopicIDs fails closed: any nonexistent id rejects the whole
// command before a single row is written.
func (s *ArticleService) validateTopicIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	existing, err := s.topics.ExistingIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to validate topic ids: %w", err)
	}

	existingSet := lo.SliceToMap(existing, func(id uuid.UUID) (uuid.UUID, struct{}) { return id, struct{}{} })
	invalid := lo.FilterMap(ids, func(id uuid.UUID, _ int) (string, bool) {
		_, ok := existingSet[id]
		return id.String(), !ok
	})

	if len(invalid) > 0 {
		return apperr.NewReference("invalid topic ids", invalid)
	}
	return nil
}
