package pg

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/dstanisic/pulsefeed/internal/apperr"
	"github.com/dstanisic/pulsefeed/internal/domain"
	"github.com/dstanisic/pulsefeed/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// topicsAggExpr folds the association join into one JSON column so a page
// of articles arrives with sources and topics in a single round trip.
const topicsAggExpr = `COALESCE(
	json_agg(json_build_object('id', t.id, 'name', t.name)) FILTER (WHERE t.id IS NOT NULL),
	'[]'
)`

var articleColumns = []string{
	"a.id", "a.source_id", "a.title", "a.description", "a.link",
	"a.publication_date", "a.sentiment", "a.created_at", "a.updated_at",
	"s.name", "s.feed_url", "s.created_at",
}

type ArticleStore struct {
	db *pgxpool.Pool
}

func NewArticleStore(pool *ConnectionPool) *ArticleStore {
	return &ArticleStore{db: pool.GetConn()}
}

var _ storage.ArticleStore = (*ArticleStore)(nil)

func (s *ArticleStore) selectArticles() sq.SelectBuilder {
	return sq.Select(append(articleColumns, topicsAggExpr)...).
		From("articles a").
		Join("rss_sources s ON s.id = a.source_id").
		LeftJoin("article_topics lnk ON lnk.article_id = a.id").
		LeftJoin("topics t ON t.id = lnk.topic_id").
		GroupBy("a.id", "s.name", "s.feed_url", "s.created_at").
		PlaceholderFormat(sq.Dollar)
}

func applyFilter(b sq.SelectBuilder, f storage.ArticleFilter) sq.SelectBuilder {
	if f.Sentiment != nil {
		b = b.Where(sq.Eq{"a.sentiment": string(*f.Sentiment)})
	}
	if f.SourceID != nil {
		b = b.Where(sq.Eq{"a.source_id": *f.SourceID})
	}
	if f.TopicID != nil {
		b = b.Where("a.id IN (SELECT article_id FROM article_topics WHERE topic_id = ?)", *f.TopicID)
	}
	return b
}

func sortColumn(f storage.ArticleFilter) string {
	col := "a.publication_date"
	if f.SortBy == "created_at" {
		col = "a.created_at"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	// Secondary id ordering keeps page boundaries stable across equal keys.
	return fmt.Sprintf("%s %s, a.id %s", col, dir, dir)
}

func (s *ArticleStore) List(ctx context.Context, f storage.ArticleFilter) ([]domain.Article, error) {
	b := applyFilter(s.selectArticles(), f).OrderBy(sortColumn(f))
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		b = b.Offset(uint64(f.Offset))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		a, err := scanArticleRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return articles, nil
}

func (s *ArticleStore) Count(ctx context.Context, f storage.ArticleFilter) (int64, error) {
	b := applyFilter(
		sq.Select("COUNT(*)").From("articles a").PlaceholderFormat(sq.Dollar),
		f,
	)

	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := s.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return total, nil
}

func (s *ArticleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	query, args, err := s.selectArticles().Where(sq.Eq{"a.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get query: %w", err)
	}

	a, err := scanArticleRow(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NewNotFoundWrap("article", id.String(), err)
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return a, nil
}

func (s *ArticleStore) Insert(ctx context.Context, a *domain.Article) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	cmd := `
		INSERT INTO articles (id, source_id, title, description, link, publication_date, sentiment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := s.db.Exec(
		ctx,
		cmd,
		a.ID,
		a.SourceID,
		a.Title,
		a.Description,
		a.Link,
		a.PublicationDate,
		sentimentParam(a.Sentiment),
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.NewConflictWrap("article with this link already exists", err)
		}
		if isForeignKeyViolation(err) {
			return apperr.NewNotFoundWrap("source", a.SourceID.String(), err)
		}
		return fmt.Errorf("failed to insert article: %w", err)
	}
	return nil
}

func (s *ArticleStore) UpsertBatch(ctx context.Context, articles []domain.Article) ([]domain.Article, error) {
	if len(articles) == 0 {
		return nil, nil
	}

	now := time.Now()
	b := sq.Insert("articles").
		Columns("id", "source_id", "title", "description", "link", "publication_date", "sentiment", "created_at", "updated_at").
		PlaceholderFormat(sq.Dollar).
		Suffix("ON CONFLICT (link) DO NOTHING RETURNING id")

	for i := range articles {
		a := &articles[i]
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		a.UpdatedAt = now
		b = b.Values(a.ID, a.SourceID, a.Title, a.Description, a.Link, a.PublicationDate, sentimentParam(a.Sentiment), a.CreatedAt, a.UpdatedAt)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build upsert query: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert articles: %w", err)
	}
	defer rows.Close()

	// Ids are generated client-side before the insert, so the RETURNING
	// set identifies the surviving rows exactly. Matching by link would
	// miscount a batch that repeats a fresh link.
	insertedIDs := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan upsert result: %w", err)
		}
		insertedIDs[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var inserted []domain.Article
	for _, a := range articles {
		if insertedIDs[a.ID] {
			inserted = append(inserted, a)
		}
	}
	return inserted, nil
}

func (s *ArticleStore) UpdateSentiment(ctx context.Context, id uuid.UUID, sentiment *domain.Sentiment) error {
	tag, err := s.db.Exec(
		ctx,
		`UPDATE articles SET sentiment = $2, updated_at = now() WHERE id = $1`,
		id,
		sentimentParam(sentiment),
	)
	if err != nil {
		return fmt.Errorf("failed to update sentiment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("article", id.String())
	}
	return nil
}

func (s *ArticleStore) ListPendingAnalysis(ctx context.Context, limit int) ([]uuid.UUID, error) {
	rows, err := s.db.Query(
		ctx,
		`SELECT id FROM articles WHERE sentiment IS NULL ORDER BY created_at LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending articles: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan pending article id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *ArticleStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("article", id.String())
	}
	return nil
}

func (s *ArticleStore) InsertTopicLinks(ctx context.Context, articleID uuid.UUID, topicIDs []uuid.UUID) error {
	if len(topicIDs) == 0 {
		return nil
	}

	b := sq.Insert("article_topics").
		Columns("article_id", "topic_id").
		PlaceholderFormat(sq.Dollar).
		Suffix("ON CONFLICT DO NOTHING")
	for _, topicID := range topicIDs {
		b = b.Values(articleID, topicID)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build association query: %w", err)
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert topic associations: %w", err)
	}
	return nil
}

func (s *ArticleStore) DeleteTopicLinks(ctx context.Context, articleID uuid.UUID) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM article_topics WHERE article_id = $1`, articleID); err != nil {
		return fmt.Errorf("failed to delete topic associations: %w", err)
	}
	return nil
}
