package redis

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/urosevicvuk/raf-event-booker/internal/config"
)

// keyPrefix はこのサービスが作成するキーの名前空間
const keyPrefix = "eb:"

// nsKey は "eb:session:<id>" のような名前空間付きキーを組み立てる
func nsKey(parts ...string) string {
	return keyPrefix + strings.Join(parts, ":")
}

// NewClient は接続確認をせずにクライアントを作成する
func NewClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        cfg.Addr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout,
	})
}

// Open はクライアントを作成して疎通を確認する。失敗時はクライアントを閉じる
func Open(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := NewClient(cfg)
	if err := Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// Ping はヘルスチェック用
func Ping(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redis接続に失敗しました: %w", err)
	}
	return nil
}
