package service

import (
	"context"
	"strings"

	"github.com/dstanisic/pulsefeed/internal/apperr"
	"github.com/dstanisic/pulsefeed/internal/domain"
	"github.com/dstanisic/pulsefeed/internal/storage"
)

// TopicRegistry resolves free-text topic names to topic rows with
// case-insensitive find-or-create semantics.
type TopicRegistry struct {
	topics storage.TopicStore
}

func NewTopicRegistry(topics storage.TopicStore) *TopicRegistry {
	return &TopicRegistry{topics: topics}
}

func (r *TopicRegistry) FindOrCreate(ctx context.Context, name string) (*domain.Topic, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.NewValidation("topic name must not be blank")
	}
	return r.topics.FindOrCreate(ctx, name)
}

// FindOrCreateAll resolves names in order, deduplicating
// case-insensitively. On a mid-batch failure the topics created so far
// stay in place: lazily-created topics are shared reference data and are
// never rolled back.
func (r *TopicRegistry) FindOrCreateAll(ctx context.Context, names []string) ([]domain.Topic, error) {
	seen := make(map[string]bool, len(names))
	var topics []domain.Topic

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		t, err := r.FindOrCreate(ctx, name)
		if err != nil {
			return nil, err
		}
		topics = append(topics, *t)
	}
	return topics, nil
}
