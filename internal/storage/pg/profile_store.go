package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/dstanisic/pulsefeed/internal/apperr"
	"github.com/dstanisic/pulsefeed/internal/domain"
	"github.com/dstanisic/pulsefeed/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileStore struct {
	db *pgxpool.Pool
}

func NewProfileStore(pool *ConnectionPool) *ProfileStore {
	return &ProfileStore{db: pool.GetConn()}
}

var _ storage.ProfileStore = (*ProfileStore)(nil)

func (s *ProfileStore) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	var (
		p    domain.Profile
		mood *string
	)
	err := s.db.QueryRow(
		ctx,
		`SELECT user_id, mood, blocklist, personalization_enabled, created_at, updated_at
		 FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &mood, &p.Blocklist, &p.PersonalizationEnabled, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NewNotFoundWrap("profile", userID, err)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if mood != nil {
		m := domain.Sentiment(*mood)
		p.Mood = &m
	}
	return &p, nil
}

func (s *ProfileStore) Upsert(ctx context.Context, p *domain.Profile) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Blocklist == nil {
		p.Blocklist = []string{}
	}

	cmd := `
		INSERT INTO profiles (user_id, mood, blocklist, personalization_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			mood = EXCLUDED.mood,
			blocklist = EXCLUDED.blocklist,
			personalization_enabled = EXCLUDED.personalization_enabled,
			updated_at = EXCLUDED.updated_at;
	`
	_, err := s.db.Exec(
		ctx,
		cmd,
		p.UserID,
		sentimentParam(p.Mood),
		p.Blocklist,
		p.PersonalizationEnabled,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (s *ProfileStore) Delete(ctx context.Context, userID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("profile", userID)
	}
	return nil
}
