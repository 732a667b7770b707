package service

import (
	"context"
	"fmt"

	"github.com/dstanisic/pulsefeed/internal/apperr"
	"github.com/dstanisic/pulsefeed/internal/domain"
	"github.com/dstanisic/pulsefeed/internal/dto"
	"github.com/dstanisic/pulsefeed/internal/storage"
	"github.com/dstanisic/pulsefeed/pkg/pagination"
	"github.com/samber/lo"
)

const (
	DefaultOverfetchFactor  = 2
	DefaultOverfetchCeiling = 1000
)

// RetrievalConfig tunes blocklist over-fetching. The factor is a
// heuristic with no completeness bound: when more than (factor-1)/factor
// of the fetched window is blocked, a page can come back short of its
// limit even though more matching rows exist further in the stream.
type RetrievalConfig struct {
	OverfetchFactor  int
	OverfetchCeiling int
}

func (c *RetrievalConfig) applyDefaults() {
	if c.OverfetchFactor <= 0 {
		c.OverfetchFactor = DefaultOverfetchFactor
	}
	if c.OverfetchCeiling <= 0 {
		c.OverfetchCeiling = DefaultOverfetchCeiling
	}
}

// List returns one page of articles with personalization applied on top
// of the storage-side filters. Pagination totals always reflect the
// pre-blocklist count, so they are exact without a blocklist and an upper
// bound with one; BlockedItemsCount lets callers detect under-filled
// pages.
func (s *ArticleService) List(ctx context.Context, q dto.ListArticlesQuery) (*dto.ArticleList, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var profile *domain.Profile
	if q.ApplyPersonalization {
		if q.CallerID == "" {
			return nil, apperr.NewValidation("personalization requires an authenticated caller")
		}
		// A missing profile is a setup problem the caller must hear
		// about, not an empty result.
		p, err := s.profiles.Get(ctx, q.CallerID)
		if err != nil {
			return nil, err
		}
		if p.PersonalizationEnabled {
			profile = p
		}
	}

	filters := dto.FiltersApplied{
		Sentiment: q.Sentiment,
		TopicID:   q.TopicID,
		SourceID:  q.SourceID,
	}
	if profile != nil && profile.Mood != nil {
		// Mood and sentiment share the same three-value domain, so the
		// preference translates 1:1 into an equality filter. It wins
		// over an explicit sentiment filter while personalization is on.
		mood := *profile.Mood
		filters.Sentiment = &mood
		filters.MoodDerived = true
	}

	blocklistActive := profile != nil && len(profile.Blocklist) > 0
	filters.BlocklistActive = blocklistActive

	fetchLimit := q.Limit
	if blocklistActive {
		fetchLimit = q.Limit * s.cfg.OverfetchFactor
		if fetchLimit > s.cfg.OverfetchCeiling {
			fetchLimit = s.cfg.OverfetchCeiling
		}
		if fetchLimit < q.Limit {
			fetchLimit = q.Limit
		}
	}

	f := storage.ArticleFilter{
		Sentiment: filters.Sentiment,
		TopicID:   q.TopicID,
		SourceID:  q.SourceID,
		SortBy:    string(q.SortBy),
		SortDesc:  q.SortOrder == dto.SortDesc,
		Limit:     fetchLimit,
		Offset:    q.Offset,
	}

	rows, err := s.articles.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch articles: %w", err)
	}

	total, err := s.articles.Count(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}

	blocked := 0
	if blocklistActive {
		kept := rows[:0]
		for _, a := range rows {
			if profile.Blocks(a) {
				blocked++
				continue
			}
			kept = append(kept, a)
		}
		rows = kept
		if len(rows) > q.Limit {
			rows = rows[:q.Limit]
		}
	}

	data := lo.Map(rows, func(a domain.Article, _ int) dto.Article { return dto.FromDomainArticle(a) })
	if data == nil {
		data = []dto.Article{}
	}

	return &dto.ArticleList{
		Data:              data,
		Pagination:        pagination.NewMetadata(q.Limit, q.Offset, total),
		FiltersApplied:    filters,
		BlockedItemsCount: blocked,
	}, nil
}
