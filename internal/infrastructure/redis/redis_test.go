package redis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/urosevicvuk/raf-event-booker/internal/config"
)

// newTestClient はローカルの Redis に接続する。接続できなければテストをスキップする
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	client := NewClient(&config.RedisConfig{Host: "localhost", Port: "6379", DB: 15})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := Ping(ctx, client); err != nil {
		_ = client.Close()
		t.Skip("Redis not available")
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func uniqueKey(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
