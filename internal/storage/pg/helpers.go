package pg

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dstanisic/pulsefeed/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgCodeUniqueViolation     = "23505"
	pgCodeForeignKeyViolation = "23503"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgCodeUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgCodeForeignKeyViolation
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// scanArticleRow maps one joined row (article columns, source columns,
// aggregated topics JSON) into a hydrated domain article.
func scanArticleRow(row pgx.Row) (*domain.Article, error) {
	var (
		a          domain.Article
		src        domain.RssSource
		sentiment  *string
		topicsJSON []byte
	)

	if err := row.Scan(
		&a.ID,
		&a.SourceID,
		&a.Title,
		&a.Description,
		&a.Link,
		&a.PublicationDate,
		&sentiment,
		&a.CreatedAt,
		&a.UpdatedAt,
		&src.Name,
		&src.FeedURL,
		&src.CreatedAt,
		&topicsJSON,
	); err != nil {
		return nil, err
	}

	if sentiment != nil {
		s := domain.Sentiment(*sentiment)
		a.Sentiment = &s
	}

	src.ID = a.SourceID
	a.Source = &src

	if err := json.Unmarshal(topicsJSON, &a.Topics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal topics: %w", err)
	}

	return &a, nil
}

func sentimentParam(s *domain.Sentiment) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}
