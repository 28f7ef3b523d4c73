package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/rsvp"
)

// RosterCache はイベントの参加登録数をキャッシュする
// 登録・取り消しのたびに Invalidate される
type RosterCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRosterCache(client *redis.Client, ttl time.Duration) *RosterCache {
	return &RosterCache{client: client, ttl: ttl}
}

func (c *RosterCache) Get(ctx context.Context, eventID string) (int, bool, error) {
	val, err := c.client.Get(ctx, c.countKey(eventID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, true, nil
}

func (c *RosterCache) Set(ctx context.Context, eventID string, count int) error {
	if err := c.client.Set(ctx, c.countKey(eventID), count, c.ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

func (c *RosterCache) Invalidate(ctx context.Context, eventID string) error {
	if err := c.client.Del(ctx, c.countKey(eventID)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *RosterCache) countKey(eventID string) string {
	return nsKey("rsvp", "count", eventID)
}

var _ rsvp.CountCache = (*RosterCache)(nil)
