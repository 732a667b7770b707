package pg

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dstanisic/pulsefeed/internal/domain"
	"github.com/dstanisic/pulsefeed/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TopicStore struct {
	db *pgxpool.Pool
}

func NewTopicStore(pool *ConnectionPool) *TopicStore {
	return &TopicStore{db: pool.GetConn()}
}

var _ storage.TopicStore = (*TopicStore)(nil)

// FindOrCreate resolves a topic name in one round trip. The DO UPDATE arm
// is a no-op rewrite of the existing name so RETURNING always yields the
// winning row, whichever casing got there first.
func (s *TopicStore) FindOrCreate(ctx context.Context, name string) (*domain.Topic, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("topic name must not be blank")
	}

	cmd := `
		INSERT INTO topics (id, name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (lower(name)) DO UPDATE SET name = topics.name
		RETURNING id, name, created_at;
	`
	var t domain.Topic
	err := s.db.QueryRow(ctx, cmd, uuid.New(), trimmed, time.Now()).
		Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to find or create topic %q: %w", trimmed, err)
	}
	return &t, nil
}

func (s *TopicStore) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.db.Query(ctx, `SELECT id FROM topics WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query topic ids: %w", err)
	}
	defer rows.Close()

	var existing []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan topic id: %w", err)
		}
		existing = append(existing, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *TopicStore) List(ctx context.Context) ([]domain.Topic, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, created_at FROM topics ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	defer rows.Close()

	var topics []domain.Topic
	for rows.Next() {
		var t domain.Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return topics, nil
}
