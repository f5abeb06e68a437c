package topicstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/slidegen/internal/domain/topics"
)

func TestMemoryStore_RanksByCountThenName(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Increment(ctx, "roadmap", "Roadmap"))
	require.NoError(t, store.Increment(ctx, "ai in healthcare", "AI in Healthcare"))
	require.NoError(t, store.Increment(ctx, "ai in healthcare", "ai in HEALTHCARE"))
	require.NoError(t, store.Increment(ctx, "budget", "Budget"))
	require.NoError(t, store.Increment(ctx, "", "ignored"))

	items, err := store.Top(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, []topics.Trending{
		{Topic: "AI in Healthcare", Count: 2},
		{Topic: "Budget", Count: 1},
	}, items)

	all, err := store.Top(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
}
