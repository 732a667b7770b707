// Package inmem implements the storage interfaces over plain maps. It
// mirrors the relational constraints that the service relies on (unique
// link, case-insensitive unique topic name, unique association pair) so
// unit tests exercise the same failure paths as the Postgres stores.
package inmem

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dstanisic/pulsefeed/internal/apperr"
	"github.com/dstanisic/pulsefeed/internal/domain"
	"github.com/dstanisic/pulsefeed/internal/storage"
	"github.com/google/uuid"
)

type DB struct {
	mu sync.RWMutex

	articles      map[uuid.UUID]domain.Article
	links         map[string]uuid.UUID
	topics        map[uuid.UUID]domain.Topic
	topicNames    map[string]uuid.UUID
	sources       map[uuid.UUID]domain.RssSource
	feedURLs      map[string]uuid.UUID
	articleTopics map[uuid.UUID]map[uuid.UUID]bool
	profiles      map[string]domain.Profile

	// InsertTopicLinksErr, when set, fails every InsertTopicLinks call.
	// Used by tests to force the compensation path.
	InsertTopicLinksErr error
}

func NewDB() *DB {
	return &DB{
		articles:      make(map[uuid.UUID]domain.Article),
		links:         make(map[string]uuid.UUID),
		topics:        make(map[uuid.UUID]domain.Topic),
		topicNames:    make(map[string]uuid.UUID),
		sources:       make(map[uuid.UUID]domain.RssSource),
		feedURLs:      make(map[string]uuid.UUID),
		articleTopics: make(map[uuid.UUID]map[uuid.UUID]bool),
		profiles:      make(map[string]domain.Profile),
	}
}

func (db *DB) Articles() *ArticleStore { return &ArticleStore{db: db} }
func (db *DB) Topics() *TopicStore     { return &TopicStore{db: db} }
func (db *DB) Sources() *SourceStore   { return &SourceStore{db: db} }
func (db *DB) Profiles() *ProfileStore { return &ProfileStore{db: db} }

func (db *DB) matches(a domain.Article, f storage.ArticleFilter) bool {
	if f.Sentiment != nil {
		if a.Sentiment == nil || *a.Sentiment != *f.Sentiment {
			return false
		}
	}
	if f.SourceID != nil && a.SourceID != *f.SourceID {
		return false
	}
	if f.TopicID != nil && !db.articleTopics[a.ID][*f.TopicID] {
		return false
	}
	return true
}

func (db *DB) hydrate(a domain.Article) domain.Article {
	if src, ok := db.sources[a.SourceID]; ok {
		s := src
		a.Source = &s
	}
	var topics []domain.Topic
	for topicID := range db.articleTopics[a.ID] {
		if t, ok := db.topics[topicID]; ok {
			topics = append(topics, t)
		}
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Name < topics[j].Name })
	a.Topics = topics
	return a
}

type ArticleStore struct {
	db *DB
}

var _ storage.ArticleStore = (*ArticleStore)(nil)

func (s *ArticleStore) List(ctx context.Context, f storage.ArticleFilter) ([]domain.Article, error) {
	db := s.db
	db.mu.RLock()
	defer db.mu.RUnlock()

	var matched []domain.Article
	for _, a := range db.articles {
		if db.matches(a, f) {
			matched = append(matched, db.hydrate(a))
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		ki, kj := matched[i].PublicationDate, matched[j].PublicationDate
		if f.SortBy == "created_at" {
			ki, kj = matched[i].CreatedAt, matched[j].CreatedAt
		}
		if !ki.Equal(kj) {
			if f.SortDesc {
				return ki.After(kj)
			}
			return ki.Before(kj)
		}
		if f.SortDesc {
			return matched[i].ID.String() > matched[j].ID.String()
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	if f.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, nil
}

func (s *ArticleStore) Count(ctx context.Context, f storage.ArticleFilter) (int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var total int64
	for _, a := range s.db.articles {
		if s.db.matches(a, f) {
			total++
		}
	}
	return total, nil
}

func (s *ArticleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	a, ok := s.db.articles[id]
	if !ok {
		return nil, apperr.NewNotFound("article", id.String())
	}
	hydrated := s.db.hydrate(a)
	return &hydrated, nil
}

func (s *ArticleStore) Insert(ctx context.Context, a *domain.Article) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.links[a.Link]; exists {
		return apperr.NewConflict("article with this link already exists")
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	s.db.articles[a.ID] = *a
	s.db.links[a.Link] = a.ID
	return nil
}

func (s *ArticleStore) UpsertBatch(ctx context.Context, articles []domain.Article) ([]domain.Article, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := time.Now()
	var inserted []domain.Article
	for _, a := range articles {
		if _, exists := s.db.links[a.Link]; exists {
			continue
		}
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		a.UpdatedAt = now
		s.db.articles[a.ID] = a
		s.db.links[a.Link] = a.ID
		inserted = append(inserted, a)
	}
	return inserted, nil
}

func (s *ArticleStore) UpdateSentiment(ctx context.Context, id uuid.UUID, sentiment *domain.Sentiment) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	a, ok := s.db.articles[id]
	if !ok {
		return apperr.NewNotFound("article", id.String())
	}
	a.Sentiment = sentiment
	a.UpdatedAt = time.Now()
	s.db.articles[id] = a
	return nil
}

func (s *ArticleStore) ListPendingAnalysis(ctx context.Context, limit int) ([]uuid.UUID, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var pending []domain.Article
	for _, a := range s.db.articles {
		if a.Sentiment == nil {
			pending = append(pending, a)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].CreatedAt.Before(pending[j].CreatedAt) })
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}

	ids := make([]uuid.UUID, 0, len(pending))
	for _, a := range pending {
		ids = append(ids, a.ID)
	}
	return ids, nil
}

func (s *ArticleStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	a, ok := s.db.articles[id]
	if !ok {
		return apperr.NewNotFound("article", id.String())
	}
	delete(s.db.articles, id)
	delete(s.db.links, a.Link)
	delete(s.db.articleTopics, id)
	return nil
}

func (s *ArticleStore) InsertTopicLinks(ctx context.Context, articleID uuid.UUID, topicIDs []uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.db.InsertTopicLinksErr != nil {
		return s.db.InsertTopicLinksErr
	}

	if s.db.articleTopics[articleID] == nil {
		s.db.articleTopics[articleID] = make(map[uuid.UUID]bool)
	}
	for _, topicID := range topicIDs {
		s.db.articleTopics[articleID][topicID] = true
	}
	return nil
}

func (s *ArticleStore) DeleteTopicLinks(ctx context.Context, articleID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	delete(s.db.articleTopics, articleID)
	return nil
}

type TopicStore struct {
	db *DB
}

var _ storage.TopicStore = (*TopicStore)(nil)

func (s *TopicStore) FindOrCreate(ctx context.Context, name string) (*domain.Topic, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	trimmed := strings.TrimSpace(name)
	key := strings.ToLower(trimmed)
	if id, ok := s.db.topicNames[key]; ok {
		t := s.db.topics[id]
		return &t, nil
	}

	t := domain.Topic{ID: uuid.New(), Name: trimmed, CreatedAt: time.Now()}
	s.db.topics[t.ID] = t
	s.db.topicNames[key] = t.ID
	return &t, nil
}

func (s *TopicStore) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var existing []uuid.UUID
	for _, id := range ids {
		if _, ok := s.db.topics[id]; ok {
			existing = append(existing, id)
		}
	}
	return existing, nil
}

func (s *TopicStore) List(ctx context.Context) ([]domain.Topic, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var topics []domain.Topic
	for _, t := range s.db.topics {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Name < topics[j].Name })
	return topics, nil
}

type SourceStore struct {
	db *DB
}

var _ storage.SourceStore = (*SourceStore)(nil)

func (s *SourceStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.RssSource, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	src, ok := s.db.sources[id]
	if !ok {
		return nil, apperr.NewNotFound("source", id.String())
	}
	return &src, nil
}

func (s *SourceStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	_, ok := s.db.sources[id]
	return ok, nil
}

func (s *SourceStore) Insert(ctx context.Context, src *domain.RssSource) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.feedURLs[src.FeedURL]; exists {
		return apperr.NewConflict("source with this feed url already exists")
	}
	if src.ID == uuid.Nil {
		src.ID = uuid.New()
	}
	if src.CreatedAt.IsZero() {
		src.CreatedAt = time.Now()
	}
	s.db.sources[src.ID] = *src
	s.db.feedURLs[src.FeedURL] = src.ID
	return nil
}

func (s *SourceStore) List(ctx context.Context) ([]domain.RssSource, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var sources []domain.RssSource
	for _, src := range s.db.sources {
		sources = append(sources, src)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Name < sources[j].Name })
	return sources, nil
}

type ProfileStore struct {
	db *DB
}

var _ storage.ProfileStore = (*ProfileStore)(nil)

func (s *ProfileStore) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	p, ok := s.db.profiles[userID]
	if !ok {
		return nil, apperr.NewNotFound("profile", userID)
	}
	return &p, nil
}

func (s *ProfileStore) Upsert(ctx context.Context, p *domain.Profile) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Blocklist == nil {
		p.Blocklist = []string{}
	}
	s.db.profiles[p.UserID] = *p
	return nil
}

func (s *ProfileStore) Delete(ctx context.Context, userID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.profiles[userID]; !ok {
		return apperr.NewNotFound("profile", userID)
	}
	delete(s.db.profiles, userID)
	return nil
}
