package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/lock"
	"github.com/urosevicvuk/raf-event-booker/internal/pkg/metrics"
)

// ErrLockNotOwned は解放しようとしたロックが既に他者のものになっていることを表す
// （TTL 切れ後に別のプロセスが取得した場合など）
var ErrLockNotOwned = errors.New("ロックの所有者ではありません")

// 所有者確認と削除をアトミックに行う
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

// DistributedLock は取得済みの Redis ロック
type DistributedLock struct {
	client  *redis.Client
	key     string
	owner   string
	metrics *metrics.Metrics
}

// LockOptions はロック取得の TTL とリトライ設定
// MaxRetries が0以下なら ctx が終わるまで待ち続ける
type LockOptions struct {
	TTL        time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// LockManager は SET NX PX による分散ロックを提供する
type LockManager struct {
	client  *redis.Client
	opts    LockOptions
	metrics *metrics.Metrics
}

func NewLockManager(client *redis.Client, opts LockOptions, m *metrics.Metrics) *LockManager {
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Second
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 10 * time.Millisecond
	}
	return &LockManager{client: client, opts: opts, metrics: m}
}

// Acquire は key のロックをリトライ付きで取得する
// リトライ上限に達した場合は lock.ErrNotAcquired、ctx が終わった場合はそのエラーを返す
func (m *LockManager) Acquire(ctx context.Context, key string) (lock.Lock, error) {
	start := time.Now()
	l, err := m.acquireWithRetry(ctx, key)
	status := "success"
	if err != nil {
		status = "failed"
	}
	m.metrics.ObserveLock("acquire", status, time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (m *LockManager) acquireWithRetry(ctx context.Context, key string) (*DistributedLock, error) {
	bounded := m.opts.MaxRetries > 0
	for i := 0; !bounded || i < m.opts.MaxRetries; i++ {
		l, err := m.tryAcquire(ctx, key)
		if err != nil {
			return nil, err
		}
		if l != nil {
			return l, nil
		}
		if bounded && i == m.opts.MaxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.opts.RetryDelay):
		}
	}
	return nil, lock.ErrNotAcquired
}

// tryAcquire は1回だけ取得を試みる。他者が保持中なら (nil, nil)
func (m *LockManager) tryAcquire(ctx context.Context, key string) (*DistributedLock, error) {
	lockKey := nsKey("lock", key)
	owner := uuid.New().String()

	ok, err := m.client.SetNX(ctx, lockKey, owner, m.opts.TTL).Result()
	if err != nil {
		return nil, fmt.Errorf("ロック取得に失敗: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &DistributedLock{client: m.client, key: lockKey, owner: owner, metrics: m.metrics}, nil
}

// Release はロックを解放する。既に所有者でなければ ErrLockNotOwned
func (l *DistributedLock) Release(ctx context.Context) error {
	start := time.Now()
	n, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.owner).Int()
	status := "success"
	switch {
	case err != nil:
		status = "failed"
		err = fmt.Errorf("ロック解放に失敗: %w", err)
	case n == 0:
		status = "failed"
		err = ErrLockNotOwned
	}
	l.metrics.ObserveLock("release", status, time.Since(start).Seconds())
	return err
}

var _ lock.Locker = (*LockManager)(nil)
