package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/engagement"
)

func TestSessionStore_Reactions(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	store := NewSessionStore(client, time.Minute)
	session := uniqueKey("session")
	target := engagement.EventTarget(uniqueKey("event"))

	t.Run("未記録はゼロ値", func(t *testing.T) {
		state, err := store.Reactions(ctx, session, target)
		require.NoError(t, err)
		assert.Equal(t, engagement.ReactionState{}, state)
	})

	t.Run("保存した状態を取得できる", func(t *testing.T) {
		require.NoError(t, store.SaveReactions(ctx, session, target, engagement.ReactionState{HasLiked: true}))
		state, err := store.Reactions(ctx, session, target)
		require.NoError(t, err)
		assert.Equal(t, engagement.ReactionState{HasLiked: true}, state)

		require.NoError(t, store.SaveReactions(ctx, session, target, engagement.ReactionState{HasDisliked: true}))
		state, err = store.Reactions(ctx, session, target)
		require.NoError(t, err)
		assert.Equal(t, engagement.ReactionState{HasDisliked: true}, state)
	})

	t.Run("対象ごとに独立している", func(t *testing.T) {
		other := engagement.CommentTarget(target.ID)
		state, err := store.Reactions(ctx, session, other)
		require.NoError(t, err)
		assert.Equal(t, engagement.ReactionState{}, state)
	})

	t.Run("アクセスでTTLが設定される", func(t *testing.T) {
		ttl, err := client.TTL(ctx, store.sessionKey(session)).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})
}

func TestSessionStore_MarkViewed(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	store := NewSessionStore(client, time.Minute)
	session := uniqueKey("session")
	eventID := uniqueKey("event")

	first, err := store.MarkViewed(ctx, session, eventID)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := store.MarkViewed(ctx, session, eventID)
	require.NoError(t, err)
	assert.False(t, second)

	require.NoError(t, store.UnmarkViewed(ctx, session, eventID))
	again, err := store.MarkViewed(ctx, session, eventID)
	require.NoError(t, err)
	assert.True(t, again)
}
