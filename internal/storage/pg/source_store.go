package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/dstanisic/pulsefeed/internal/apperr"
	"github.com/dstanisic/pulsefeed/internal/domain"
	"github.com/dstanisic/pulsefeed/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SourceStore struct {
	db *pgxpool.Pool
}

func NewSourceStore(pool *ConnectionPool) *SourceStore {
	return &SourceStore{db: pool.GetConn()}
}

var _ storage.SourceStore = (*SourceStore)(nil)

func (s *SourceStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.RssSource, error) {
	var src domain.RssSource
	err := s.db.QueryRow(
		ctx,
		`SELECT id, name, feed_url, created_at FROM rss_sources WHERE id = $1`,
		id,
	).Scan(&src.ID, &src.Name, &src.FeedURL, &src.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NewNotFoundWrap("source", id.String(), err)
		}
		return nil, fmt.Errorf("failed to get source: %w", err)
	}
	return &src, nil
}

func (s *SourceStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM rss_sources WHERE id = $1)`,
		id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check source existence: %w", err)
	}
	return exists, nil
}

func (s *SourceStore) Insert(ctx context.Context, src *domain.RssSource) error {
	if src.ID == uuid.Nil {
		src.ID = uuid.New()
	}
	if src.CreatedAt.IsZero() {
		src.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(
		ctx,
		`INSERT INTO rss_sources (id, name, feed_url, created_at) VALUES ($1, $2, $3, $4)`,
		src.ID,
		src.Name,
		src.FeedURL,
		src.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.NewConflictWrap("source with this feed url already exists", err)
		}
		return fmt.Errorf("failed to insert source: %w", err)
	}
	return nil
}

func (s *SourceStore) List(ctx context.Context) ([]domain.RssSource, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, feed_url, created_at FROM rss_sources ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.RssSource
	for rows.Next() {
		var src domain.RssSource
		if err := rows.Scan(&src.ID, &src.Name, &src.FeedURL, &src.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sources, nil
}
