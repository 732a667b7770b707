package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dstanisic/pulsefeed/internal/apperr"
	"github.com/dstanisic/pulsefeed/internal/domain"
	"github.com/dstanisic/pulsefeed/internal/dto"
	"github.com/dstanisic/pulsefeed/internal/storage/inmem"
	"github.com/dstanisic/pulsefeed/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedArticle(t *testing.T, db *inmem.DB, sourceID uuid.UUID, title string, sentiment *domain.Sentiment, published time.Time) *domain.Article {
	t.Helper()
	a := &domain.Article{
		SourceID:        sourceID,
		Title:           title,
		Link:            fmt.Sprintf("https://wire.example.com/%s-%s", title, uuid.NewString()),
		PublicationDate: published,
		Sentiment:       sentiment,
	}
	require.NoError(t, db.Articles().Insert(context.Background(), a))
	return a
}

func seedProfile(t *testing.T, db *inmem.DB, userID string, mood *domain.Sentiment, blocklist []string, enabled bool) {
	t.Helper()
	require.NoError(t, db.Profiles().Upsert(context.Background(), &domain.Profile{
		UserID:                 userID,
		Mood:                   mood,
		Blocklist:              blocklist,
		PersonalizationEnabled: enabled,
	}))
}

func sentimentPtr(s domain.Sentiment) *domain.Sentiment { return &s }

func TestArticleService_List_SortsByPublicationDateDesc(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	src := seedSource(t, db, "wire")

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	seedArticle(t, db, src.ID, "oldest", nil, base)
	seedArticle(t, db, src.ID, "newest", nil, base.Add(48*time.Hour))
	seedArticle(t, db, src.ID, "middle", nil, base.Add(24*time.Hour))

	list, err := svc.List(ctx, dto.ListArticlesQuery{})

	require.NoError(t, err)
	require.Len(t, list.Data, 3)
	assert.Equal(t, "newest", list.Data[0].Title)
	assert.Equal(t, "middle", list.Data[1].Title)
	assert.Equal(t, "oldest", list.Data[2].Title)
	assert.Equal(t, int64(3), list.Pagination.Total)
	assert.False(t, list.Pagination.HasMore)
}

func TestArticleService_List_PagesConcatenateWithoutOverlap(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	src := seedSource(t, db, "wire")

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		seedArticle(t, db, src.ID, fmt.Sprintf("a%d", i), nil, base.Add(time.Duration(i)*time.Hour))
	}

	seen := make(map[uuid.UUID]bool)
	var pages int
	for offset := 0; ; offset += 3 {
		q := dto.ListArticlesQuery{}
		q.Limit = 3
		q.Offset = offset
		list, err := svc.List(ctx, q)
		require.NoError(t, err)
		for _, a := range list.Data {
			assert.False(t, seen[a.ID], "article %s appeared on two pages", a.ID)
			seen[a.ID] = true
		}
		pages++
		if !list.Pagination.HasMore {
			break
		}
	}

	assert.Equal(t, 3, pages)
	assert.Len(t, seen, 7)
}

func TestArticleService_List_SentimentFilter(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	src := seedSource(t, db, "wire")

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	seedArticle(t, db, src.ID, "up", sentimentPtr(domain.SentimentPositive), now)
	seedArticle(t, db, src.ID, "down", sentimentPtr(domain.SentimentNegative), now.Add(time.Hour))
	seedArticle(t, db, src.ID, "flat", nil, now.Add(2*time.Hour))

	q := dto.ListArticlesQuery{Sentiment: sentimentPtr(domain.SentimentPositive)}
	list, err := svc.List(ctx, q)

	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "up", list.Data[0].Title)
	assert.False(t, list.FiltersApplied.MoodDerived)
}

func TestArticleService_List_MoodOverridesSentimentFilter(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	src := seedSource(t, db, "wire")

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	seedArticle(t, db, src.ID, "up", sentimentPtr(domain.SentimentPositive), now)
	seedArticle(t, db, src.ID, "down", sentimentPtr(domain.SentimentNegative), now.Add(time.Hour))
	seedProfile(t, db, "user-1", sentimentPtr(domain.SentimentPositive), nil, true)

	q := dto.ListArticlesQuery{
		Sentiment:            sentimentPtr(domain.SentimentNegative),
		ApplyPersonalization: true,
		CallerID:             "user-1",
	}
	list, err := svc.List(ctx, q)

	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "up", list.Data[0].Title)
	assert.True(t, list.FiltersApplied.MoodDerived)
	require.NotNil(t, list.FiltersApplied.Sentiment)
	assert.Equal(t, domain.SentimentPositive, *list.FiltersApplied.Sentiment)
}

func TestArticleService_List_BlocklistFiltersAndCounts(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	src := seedSource(t, db, "wire")

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	seedArticle(t, db, src.ID, "Crypto crash deepens", nil, now)
	seedArticle(t, db, src.ID, "Local elections ahead", nil, now.Add(time.Hour))
	seedArticle(t, db, src.ID, "CRYPTO rebound hopes", nil, now.Add(2*time.Hour))
	seedProfile(t, db, "user-1", nil, []string{"crypto"}, true)

	q := dto.ListArticlesQuery{ApplyPersonalization: true, CallerID: "user-1"}
	list, err := svc.List(ctx, q)

	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Local elections ahead", list.Data[0].Title)
	assert.Equal(t, 2, list.BlockedItemsCount)
	assert.True(t, list.FiltersApplied.BlocklistActive)
	// The total is a pre-blocklist upper bound.
	assert.Equal(t, int64(3), list.Pagination.Total)
}

func TestArticleService_List_HeavyBlockingReturnsShortPage(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	src := seedSource(t, db, "wire")

	// With the default factor of 2 and limit 2 the fetch window is 4
	// rows. The 4 newest are all blocked, so the page comes back empty
	// even though 2 clean articles exist further down the stream. The
	// counters are what expose the short page to the caller.
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	seedArticle(t, db, src.ID, "clean one", nil, base)
	seedArticle(t, db, src.ID, "clean two", nil, base.Add(time.Hour))
	for i := 0; i < 4; i++ {
		seedArticle(t, db, src.ID, fmt.Sprintf("crypto story %d", i), nil, base.Add(time.Duration(24+i)*time.Hour))
	}
	seedProfile(t, db, "user-1", nil, []string{"crypto"}, true)

	q := dto.ListArticlesQuery{ApplyPersonalization: true, CallerID: "user-1"}
	q.Limit = 2
	list, err := svc.List(ctx, q)

	require.NoError(t, err)
	assert.Len(t, list.Data, 0)
	assert.Equal(t, 4, list.BlockedItemsCount)
	assert.Equal(t, int64(6), list.Pagination.Total)
	assert.True(t, list.FiltersApplied.BlocklistActive)
}

func TestArticleService_List_OverfetchWindowCapsAtCeiling(t *testing.T) {
	db := inmem.NewDB()
	svc := NewArticleService(db.Articles(), db.Topics(), db.Sources(), db.Profiles(), RetrievalConfig{
		OverfetchFactor:  10,
		OverfetchCeiling: 3,
	})
	ctx := context.Background()
	src := seedSource(t, db, "wire")

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedArticle(t, db, src.ID, fmt.Sprintf("crypto story %d", i), nil, base.Add(time.Duration(i)*time.Hour))
	}
	seedProfile(t, db, "user-1", nil, []string{"crypto"}, true)

	q := dto.ListArticlesQuery{ApplyPersonalization: true, CallerID: "user-1"}
	q.Limit = 2
	list, err := svc.List(ctx, q)

	require.NoError(t, err)
	// factor*limit would be 20, but the window stops at the ceiling: only
	// 3 rows were fetched and examined, all of them blocked.
	assert.Len(t, list.Data, 0)
	assert.Equal(t, 3, list.BlockedItemsCount)
	assert.Equal(t, int64(5), list.Pagination.Total)
}

func TestArticleService_List_DisabledProfileSkipsPersonalization(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	src := seedSource(t, db, "wire")

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	seedArticle(t, db, src.ID, "Crypto crash deepens", nil, now)
	seedProfile(t, db, "user-1", sentimentPtr(domain.SentimentPositive), []string{"crypto"}, false)

	q := dto.ListArticlesQuery{ApplyPersonalization: true, CallerID: "user-1"}
	list, err := svc.List(ctx, q)

	require.NoError(t, err)
	assert.Len(t, list.Data, 1)
	assert.Equal(t, 0, list.BlockedItemsCount)
	assert.False(t, list.FiltersApplied.BlocklistActive)
	assert.False(t, list.FiltersApplied.MoodDerived)
}

func TestArticleService_List_MissingProfileIsAnError(t *testing.T) {
	svc, _ := newTestService(t)

	q := dto.ListArticlesQuery{ApplyPersonalization: true, CallerID: "ghost"}
	_, err := svc.List(context.Background(), q)

	var notFound *apperr.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "profile", notFound.Entity)
}

func TestArticleService_List_PersonalizationRequiresCaller(t *testing.T) {
	svc, _ := newTestService(t)

	q := dto.ListArticlesQuery{ApplyPersonalization: true}
	_, err := svc.List(context.Background(), q)

	var validation *apperr.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestArticleService_List_EmptyResultHasEmptySlice(t *testing.T) {
	svc, _ := newTestService(t)

	list, err := svc.List(context.Background(), dto.ListArticlesQuery{})

	require.NoError(t, err)
	assert.NotNil(t, list.Data)
	assert.Len(t, list.Data, 0)
	assert.Equal(t, pagination.Metadata{Limit: pagination.LimitDefault, Offset: 0, Total: 0, HasMore: false}, list.Pagination)
}
