package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/engagement"
)

// SessionStore はセッションごとのリアクション・閲覧フラグを Redis のハッシュに保持する
// キー: eb:session:{sessionID}、フィールド: liked:{kind}:{id} / disliked:{kind}:{id} / viewed:event:{id}
// アクセスのたびに TTL を延長する（スライディング有効期限）
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Reactions(ctx context.Context, sessionID string, target engagement.Target) (engagement.ReactionState, error) {
	key := s.sessionKey(sessionID)

	var get *redis.SliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.HMGet(ctx, key, likedField(target), dislikedField(target))
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return engagement.ReactionState{}, fmt.Errorf("セッション取得に失敗: %w", err)
	}

	vals := get.Val()
	return engagement.ReactionState{
		HasLiked:    len(vals) > 0 && vals[0] != nil,
		HasDisliked: len(vals) > 1 && vals[1] != nil,
	}, nil
}

func (s *SessionStore) SaveReactions(ctx context.Context, sessionID string, target engagement.Target, state engagement.ReactionState) error {
	key := s.sessionKey(sessionID)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		setFlag(ctx, pipe, key, likedField(target), state.HasLiked)
		setFlag(ctx, pipe, key, dislikedField(target), state.HasDisliked)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("セッション保存に失敗: %w", err)
	}
	return nil
}

// MarkViewed は HSETNX で閲覧フラグを立て、新たに立てた場合のみ true を返す
func (s *SessionStore) MarkViewed(ctx context.Context, sessionID, eventID string) (bool, error) {
	key := s.sessionKey(sessionID)

	var setNX *redis.BoolCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		setNX = pipe.HSetNX(ctx, key, viewedField(eventID), 1)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("閲覧フラグの保存に失敗: %w", err)
	}
	return setNX.Val(), nil
}

func (s *SessionStore) UnmarkViewed(ctx context.Context, sessionID, eventID string) error {
	if err := s.client.HDel(ctx, s.sessionKey(sessionID), viewedField(eventID)).Err(); err != nil {
		return fmt.Errorf("閲覧フラグの取り消しに失敗: %w", err)
	}
	return nil
}

func (s *SessionStore) sessionKey(sessionID string) string {
	return nsKey("session", sessionID)
}

func setFlag(ctx context.Context, pipe redis.Pipeliner, key, field string, on bool) {
	if on {
		pipe.HSet(ctx, key, field, 1)
		return
	}
	pipe.HDel(ctx, key, field)
}

func likedField(t engagement.Target) string    { return "liked:" + t.String() }
func dislikedField(t engagement.Target) string { return "disliked:" + t.String() }
func viewedField(eventID string) string        { return "viewed:" + engagement.EventTarget(eventID).String() }

var _ engagement.SessionStore = (*SessionStore)(nil)
