package domain

import (
	"strings"
	"time"
)

// Profile holds a user's personalization settings. At most one profile
// exists per user identity, and only that identity may read or mutate it.
type Profile struct {
	UserID                 string     `json:"userId"`
	Mood                   *Sentiment `json:"mood,omitempty"`
	Blocklist              []string   `json:"blocklist"`
	PersonalizationEnabled bool       `json:"personalizationEnabled"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

// Blocks reports whether any blocklist fragment occurs as a
// case-insensitive substring of the article's title, description or link.
func (p *Profile) Blocks(a Article) bool {
	if p == nil || len(p.Blocklist) == 0 {
		return false
	}

	title := strings.ToLower(a.Title)
	link := strings.ToLower(a.Link)
	var description string
	if a.Description != nil {
		description = strings.ToLower(*a.Description)
	}

	for _, fragment := range p.Blocklist {
		f := strings.ToLower(strings.TrimSpace(fragment))
		if f == "" {
			continue
		}
		if strings.Contains(title, f) || strings.Contains(description, f) || strings.Contains(link, f) {
			return true
		}
	}
	return false
}
