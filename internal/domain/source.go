package domain

import (
	"time"

	"github.com/google/uuid"
)

type RssSource struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	FeedURL   string    `json:"feedUrl"`
	CreatedAt time.Time `json:"createdAt"`
}
