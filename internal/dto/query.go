package dto

import (
	"github.com/dstanisic/pulsefeed/internal/apperr"
	"github.com/dstanisic/pulsefeed/internal/domain"
	"github.com/dstanisic/pulsefeed/pkg/pagination"
	"github.com/google/uuid"
)

type SortKey string

const (
	SortByPublicationDate SortKey = "publication_date"
	SortByCreatedAt       SortKey = "created_at"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListArticlesQuery is the validated query object handed to the article
// service. CallerID is filled from the authenticated identity by the
// transport layer, never bound from the request body.
type ListArticlesQuery struct {
	pagination.OffsetRequest

	Sentiment            *domain.Sentiment `query:"sentiment"`
	TopicID              *uuid.UUID        `query:"topicId"`
	SourceID             *uuid.UUID        `query:"sourceId"`
	SortBy               SortKey           `query:"sortBy"`
	SortOrder            SortOrder         `query:"sortOrder"`
	ApplyPersonalization bool              `query:"applyPersonalization"`

	CallerID string `json:"-"`
}

// Validate normalizes pagination bounds and defaults, and rejects values
// outside the sort and sentiment domains.
func (q *ListArticlesQuery) Validate() error {
	q.Normalize()

	if q.SortBy == "" {
		q.SortBy = SortByPublicationDate
	}
	if q.SortBy != SortByPublicationDate && q.SortBy != SortByCreatedAt {
		return apperr.NewValidation("sortBy must be publication_date or created_at")
	}

	if q.SortOrder == "" {
		q.SortOrder = SortDesc
	}
	if q.SortOrder != SortAsc && q.SortOrder != SortDesc {
		return apperr.NewValidation("sortOrder must be asc or desc")
	}

	if q.Sentiment != nil && !q.Sentiment.Valid() {
		return apperr.NewValidation("sentiment must be positive, neutral or negative")
	}

	return nil
}

// FiltersApplied records which filters actually shaped the result, so
// callers can tell an explicit sentiment filter from a mood-derived one.
type FiltersApplied struct {
	Sentiment       *domain.Sentiment `json:"sentiment,omitempty"`
	MoodDerived     bool              `json:"moodDerived"`
	TopicID         *uuid.UUID        `json:"topicId,omitempty"`
	SourceID        *uuid.UUID        `json:"sourceId,omitempty"`
	BlocklistActive bool              `json:"blocklistActive"`
}
