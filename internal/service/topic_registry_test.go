package service

import (
	"context"
	"testing"

	"github.com/dstanisic/pulsefeed/internal/apperr"
	"github.com/dstanisic/pulsefeed/internal/storage/inmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicRegistry_FindOrCreate_CaseInsensitive(t *testing.T) {
	db := inmem.NewDB()
	registry := NewTopicRegistry(db.Topics())
	ctx := context.Background()

	first, err := registry.FindOrCreate(ctx, "Climate")
	require.NoError(t, err)

	second, err := registry.FindOrCreate(ctx, "climate")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Climate", second.Name, "original spelling wins")

	topics, err := db.Topics().List(ctx)
	require.NoError(t, err)
	assert.Len(t, topics, 1)
}

func TestTopicRegistry_FindOrCreate_RejectsBlankName(t *testing.T) {
	registry := NewTopicRegistry(inmem.NewDB().Topics())

	_, err := registry.FindOrCreate(context.Background(), "   ")

	var validation *apperr.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestTopicRegistry_FindOrCreateAll_DeduplicatesBatch(t *testing.T) {
	db := inmem.NewDB()
	registry := NewTopicRegistry(db.Topics())

	topics, err := registry.FindOrCreateAll(context.Background(), []string{"Tech", "tech", "TECH", "Economy"})

	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "Tech", topics[0].Name)
	assert.Equal(t, "Economy", topics[1].Name)
}
