package lock

import (
	"context"
	"errors"
)

// ErrNotAcquired はリトライ上限までにロックを取得できなかったことを表す
var ErrNotAcquired = errors.New("ロックを取得できませんでした")

// Lock は取得済みのロック
type Lock interface {
	Release(ctx context.Context) error
}

// Locker はキー単位の排他ロックを提供する
// ドメイン層が Redis 等の実装に依存しないための抽象化
type Locker interface {
	Acquire(ctx context.Context, key string) (Lock, error)
}
