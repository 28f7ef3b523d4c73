package memory

import (
	"context"
	"sync"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/lock"
)

// KeyedLocker はキー単位の排他ロック
// 保持者がいなくなったキーは参照カウントで解放する
type KeyedLocker struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	ch   chan struct{}
	refs int
}

func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{locks: make(map[string]*keyedEntry)}
}

// Acquire は key のロックを取得するまで待つ。ctx がキャンセルされたらそのエラーを返す
func (l *KeyedLocker) Acquire(ctx context.Context, key string) (lock.Lock, error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &keyedEntry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		return &keyedLock{locker: l, key: key, entry: e}, nil
	case <-ctx.Done():
		l.unref(key, e)
		return nil, ctx.Err()
	}
}

func (l *KeyedLocker) unref(key string, e *keyedEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

type keyedLock struct {
	locker *KeyedLocker
	key    string
	entry  *keyedEntry
	once   sync.Once
}

func (k *keyedLock) Release(context.Context) error {
	k.once.Do(func() {
		<-k.entry.ch
		k.locker.unref(k.key, k.entry)
	})
	return nil
}

var _ lock.Locker = (*KeyedLocker)(nil)
