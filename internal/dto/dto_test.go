package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dstanisic/pulsefeed/internal/apperr"
	"github.com/dstanisic/pulsefeed/internal/domain"
	"github.com/dstanisic/pulsefeed/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListArticlesQuery_Validate_Defaults(t *testing.T) {
	q := dto.ListArticlesQuery{}
	require.NoError(t, q.Validate())

	assert.Equal(t, dto.SortByPublicationDate, q.SortBy)
	assert.Equal(t, dto.SortDesc, q.SortOrder)
	assert.Positive(t, q.Limit)
	assert.Zero(t, q.Offset)
}

func TestListArticlesQuery_Validate_RejectsUnknownSortKey(t *testing.T) {
	q := dto.ListArticlesQuery{SortBy: "title"}
	err := q.Validate()

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestListArticlesQuery_Validate_RejectsUnknownSentiment(t *testing.T) {
	bad := domain.Sentiment("euphoric")
	q := dto.ListArticlesQuery{Sentiment: &bad}

	var ve *apperr.ValidationError
	require.ErrorAs(t, q.Validate(), &ve)
}

func TestCreateArticleCommand_Validate(t *testing.T) {
	valid := func() dto.CreateArticleCommand {
		return dto.CreateArticleCommand{
			SourceID:        uuid.New(),
			Title:           "Grid storage hits record capacity",
			Link:            "https://news.example.com/grid-storage",
			PublicationDate: mustParseTime(t, "2025-06-01T10:00:00Z"),
		}
	}

	t.Run("valid command passes", func(t *testing.T) {
		cmd := valid()
		assert.NoError(t, cmd.Validate())
	})

	t.Run("missing source rejected", func(t *testing.T) {
		cmd := valid()
		cmd.SourceID = uuid.Nil
		assert.Error(t, cmd.Validate())
	})

	t.Run("blank link rejected", func(t *testing.T) {
		cmd := valid()
		cmd.Link = "   "
		assert.Error(t, cmd.Validate())
	})

	t.Run("nil topic id rejected", func(t *testing.T) {
		cmd := valid()
		cmd.TopicIDs = []uuid.UUID{uuid.New(), uuid.Nil}
		assert.Error(t, cmd.Validate())
	})
}

func TestUpdateArticlePatch_TriState(t *testing.T) {
	t.Run("absent field stays absent", func(t *testing.T) {
		var p dto.UpdateArticlePatch
		require.NoError(t, json.Unmarshal([]byte(`{"topicIds":[]}`), &p))

		assert.False(t, p.Sentiment.Set())
		assert.True(t, p.TopicIDs.Set())
		ids, ok := p.TopicIDs.Value()
		assert.True(t, ok)
		assert.Empty(t, ids)
	})

	t.Run("explicit null clears sentiment", func(t *testing.T) {
		var p dto.UpdateArticlePatch
		require.NoError(t, json.Unmarshal([]byte(`{"sentiment":null}`), &p))

		assert.True(t, p.Sentiment.Set())
		assert.True(t, p.Sentiment.IsNull())
		require.NoError(t, p.Validate())
	})

	t.Run("explicit value parses", func(t *testing.T) {
		var p dto.UpdateArticlePatch
		require.NoError(t, json.Unmarshal([]byte(`{"sentiment":"negative"}`), &p))

		s, ok := p.Sentiment.Value()
		require.True(t, ok)
		assert.Equal(t, domain.SentimentNegative, s)
	})

	t.Run("empty patch rejected", func(t *testing.T) {
		var p dto.UpdateArticlePatch
		require.NoError(t, json.Unmarshal([]byte(`{}`), &p))
		assert.Error(t, p.Validate())
	})

	t.Run("null topicIds rejected", func(t *testing.T) {
		var p dto.UpdateArticlePatch
		require.NoError(t, json.Unmarshal([]byte(`{"topicIds":null}`), &p))
		assert.Error(t, p.Validate())
	})
}

func TestFromDomainArticle_NestedShapes(t *testing.T) {
	src := &domain.RssSource{ID: uuid.New(), Name: "Wire", FeedURL: "https://wire.example.com/rss"}
	sentiment := domain.SentimentPositive
	a := domain.Article{
		ID:        uuid.New(),
		Title:     "Title",
		Link:      "https://news.example.com/1",
		Sentiment: &sentiment,
		Source:    src,
		Topics:    []domain.Topic{{ID: uuid.New(), Name: "Tech"}},
	}

	out := dto.FromDomainArticle(a)

	require.NotNil(t, out.Source)
	assert.Equal(t, src.FeedURL, out.Source.URL)
	require.Len(t, out.Topics, 1)
	assert.Equal(t, "Tech", out.Topics[0].Name)
}

func TestFromDomainArticle_EmptyTopicsSerializeAsList(t *testing.T) {
	out := dto.FromDomainArticle(domain.Article{ID: uuid.New()})

	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"topics":[]`)
}

func mustParseTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}
