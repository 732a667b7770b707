package domain

import (
	"time"

	"github.com/google/uuid"
)

// Topic names are unique under case-insensitive comparison: "Tech" and
// "tech" resolve to the same topic.
type Topic struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
