package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/event"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/lock"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/rsvp"
	"github.com/urosevicvuk/raf-event-booker/internal/infrastructure/memory"
)

func intPtr(i int) *int { return &i }

// countingCache は rsvp.CountCache の呼び出しを記録する
type countingCache struct {
	mu          sync.Mutex
	values      map[string]int
	invalidated int
}

func newCountingCache() *countingCache {
	return &countingCache{values: make(map[string]int)}
}

func (c *countingCache) Get(_ context.Context, eventID string) (int, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.values[eventID]
	return n, ok, nil
}

func (c *countingCache) Set(_ context.Context, eventID string, n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[eventID] = n
	return nil
}

func (c *countingCache) Invalidate(_ context.Context, eventID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, eventID)
	c.invalidated++
	return nil
}

// contendedLocker は常に混雑して取得できないロック
type contendedLocker struct{ calls int32 }

func (l *contendedLocker) Acquire(context.Context, string) (lock.Lock, error) {
	atomic.AddInt32(&l.calls, 1)
	return nil, lock.ErrNotAcquired
}

func newRSVPServiceForTest(roster *fakeRoster, eventRepo event.Repository, locker lock.Locker, cache rsvp.CountCache) *RSVPService {
	return NewRSVPService(&fakeTxManager{roster: roster}, roster, eventRepo, locker, cache, nil)
}

func TestRSVPService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("定員2に3人が順に登録すると3人目は定員超過", func(t *testing.T) {
		roster := newFakeRoster()
		roster.addEvent("ev-1", intPtr(2))
		svc := newRSVPServiceForTest(roster, new(MockEventRepository), nil, nil)

		r1, err := svc.Register(ctx, "ev-1", "u1@example.com")
		require.NoError(t, err)
		assert.NotEmpty(t, r1.ID)
		assert.False(t, r1.RegisteredAt.IsZero())

		_, err = svc.Register(ctx, "ev-1", "u2@example.com")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "ev-1", "u3@example.com")
		assert.ErrorIs(t, err, rsvp.ErrCapacityExceeded)
		assert.Equal(t, 2, roster.size("ev-1"))
	})

	t.Run("同じユーザーの二重登録は AlreadyRegistered", func(t *testing.T) {
		roster := newFakeRoster()
		roster.addEvent("ev-1", nil)
		svc := newRSVPServiceForTest(roster, new(MockEventRepository), nil, nil)

		_, err := svc.Register(ctx, "ev-1", "u1")
		require.NoError(t, err)
		_, err = svc.Register(ctx, "ev-1", "u1")
		assert.ErrorIs(t, err, rsvp.ErrAlreadyRegistered)
		assert.Equal(t, 1, roster.size("ev-1"))
	})

	t.Run("満員でも登録済みユーザーには AlreadyRegistered を返す", func(t *testing.T) {
		roster := newFakeRoster()
		roster.addEvent("ev-1", intPtr(1))
		svc := newRSVPServiceForTest(roster, new(MockEventRepository), nil, nil)

		_, err := svc.Register(ctx, "ev-1", "u1")
		require.NoError(t, err)
		_, err = svc.Register(ctx, "ev-1", "u1")
		assert.ErrorIs(t, err, rsvp.ErrAlreadyRegistered)
	})

	t.Run("存在しないイベントは EventNotFound", func(t *testing.T) {
		roster := newFakeRoster()
		svc := newRSVPServiceForTest(roster, new(MockEventRepository), nil, nil)

		_, err := svc.Register(ctx, "missing", "u1")
		assert.ErrorIs(t, err, event.ErrEventNotFound)
	})

	t.Run("ユーザー識別子が空ならエラー", func(t *testing.T) {
		roster := newFakeRoster()
		roster.addEvent("ev-1", nil)
		svc := newRSVPServiceForTest(roster, new(MockEventRepository), nil, nil)

		_, err := svc.Register(ctx, "ev-1", "   ")
		assert.ErrorIs(t, err, rsvp.ErrUserIdentifierRequired)
	})

	t.Run("定員0は無制限として扱う", func(t *testing.T) {
		roster := newFakeRoster()
		roster.addEvent("ev-1", intPtr(0))
		svc := newRSVPServiceForTest(roster, new(MockEventRepository), nil, nil)

		for i := 0; i < 5; i++ {
			_, err := svc.Register(ctx, "ev-1", fmt.Sprintf("u%d", i))
			require.NoError(t, err)
		}
		assert.Equal(t, 5, roster.size("ev-1"))
	})

	t.Run("登録成功でキャッシュを無効化する", func(t *testing.T) {
		roster := newFakeRoster()
		roster.addEvent("ev-1", nil)
		cache := newCountingCache()
		require.NoError(t, cache.Set(ctx, "ev-1", 99))
		svc := newRSVPServiceForTest(roster, new(MockEventRepository), nil, cache)

		_, err := svc.Register(ctx, "ev-1", "u1")
		require.NoError(t, err)
		_, ok, _ := cache.Get(ctx, "ev-1")
		assert.False(t, ok)
		assert.Equal(t, 1, cache.invalidated)
	})
}

func TestRSVPService_Register_Concurrent(t *testing.T) {
	const capacity = 5
	const extra = 15

	cases := []struct {
		name   string
		locker lock.Locker
	}{
		{"行ロックのみ", nil},
		{"分散ロック＋行ロック", memory.NewKeyedLocker()},
		{"分散ロックが混雑しても行ロックで直列化", &contendedLocker{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			roster := newFakeRoster()
			roster.addEvent("ev-1", intPtr(capacity))
			svc := newRSVPServiceForTest(roster, new(MockEventRepository), tc.locker, nil)

			var success, exceeded, other int32
			var wg sync.WaitGroup
			start := make(chan struct{})
			for i := 0; i < capacity+extra; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					<-start
					_, err := svc.Register(context.Background(), "ev-1", fmt.Sprintf("user-%d", i))
					switch {
					case err == nil:
						atomic.AddInt32(&success, 1)
					case errors.Is(err, rsvp.ErrCapacityExceeded):
						atomic.AddInt32(&exceeded, 1)
					default:
						atomic.AddInt32(&other, 1)
					}
				}(i)
			}
			close(start)
			wg.Wait()

			assert.Equal(t, int32(capacity), success)
			assert.Equal(t, int32(extra), exceeded)
			assert.Equal(t, int32(0), other)
			assert.Equal(t, capacity, roster.size("ev-1"))
		})
	}
}

func TestRSVPService_Register_LockFailure(t *testing.T) {
	t.Run("ロック混雑は登録失敗にしない", func(t *testing.T) {
		roster := newFakeRoster()
		roster.addEvent("ev-1", intPtr(1))
		locker := &contendedLocker{}
		svc := newRSVPServiceForTest(roster, new(MockEventRepository), locker, nil)

		_, err := svc.Register(context.Background(), "ev-1", "u1")
		require.NoError(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&locker.calls))

		_, err = svc.Register(context.Background(), "ev-1", "u2")
		assert.ErrorIs(t, err, rsvp.ErrCapacityExceeded)
	})

	t.Run("キャンセルされたロック待ちはエラーを返す", func(t *testing.T) {
		roster := newFakeRoster()
		roster.addEvent("ev-1", nil)
		locker := memory.NewKeyedLocker()
		held, err := locker.Acquire(context.Background(), "rsvp:event:ev-1")
		require.NoError(t, err)
		defer held.Release(context.Background())
		svc := newRSVPServiceForTest(roster, new(MockEventRepository), locker, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = svc.Register(ctx, "ev-1", "u1")
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, roster.size("ev-1"))
	})
}

func TestRSVPService_Register_ConcurrentDuplicate(t *testing.T) {
	roster := newFakeRoster()
	roster.addEvent("ev-1", nil)
	svc := newRSVPServiceForTest(roster, new(MockEventRepository), nil, nil)

	var success, duplicate int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(context.Background(), "ev-1", "same-user")
			if err == nil {
				atomic.AddInt32(&success, 1)
			} else if errors.Is(err, rsvp.ErrAlreadyRegistered) {
				atomic.AddInt32(&duplicate, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), success)
	assert.Equal(t, int32(9), duplicate)
	assert.Equal(t, 1, roster.size("ev-1"))
}

func TestRSVPService_Deregister(t *testing.T) {
	ctx := context.Background()
	roster := newFakeRoster()
	roster.addEvent("ev-1", intPtr(1))
	cache := newCountingCache()
	svc := newRSVPServiceForTest(roster, new(MockEventRepository), nil, cache)

	_, err := svc.Register(ctx, "ev-1", "u1")
	require.NoError(t, err)

	t.Run("取り消すと空きができる", func(t *testing.T) {
		require.NoError(t, svc.Deregister(ctx, "ev-1", "u1"))
		assert.Equal(t, 0, roster.size("ev-1"))

		_, err := svc.Register(ctx, "ev-1", "u2")
		require.NoError(t, err)
	})

	t.Run("未登録の取り消しはエラーにならない", func(t *testing.T) {
		assert.NoError(t, svc.Deregister(ctx, "ev-1", "nobody"))
	})
}

func TestRSVPService_Status(t *testing.T) {
	ctx := context.Background()

	t.Run("DBから数えてキャッシュに保存する", func(t *testing.T) {
		roster := newFakeRoster()
		roster.addEvent("ev-1", intPtr(2))
		eventRepo := new(MockEventRepository)
		eventRepo.On("GetByID", mock.Anything, "ev-1").Return(&event.Event{ID: "ev-1", MaxCapacity: intPtr(2)}, nil)
		cache := newCountingCache()
		svc := newRSVPServiceForTest(roster, eventRepo, nil, cache)

		_, err := svc.Register(ctx, "ev-1", "u1")
		require.NoError(t, err)
		_, err = svc.Register(ctx, "ev-1", "u2")
		require.NoError(t, err)

		status, err := svc.Status(ctx, "ev-1")
		require.NoError(t, err)
		assert.Equal(t, 2, status.CurrentCount)
		assert.True(t, status.IsFull())
		assert.False(t, status.CanRegister())

		cached, ok, _ := cache.Get(ctx, "ev-1")
		assert.True(t, ok)
		assert.Equal(t, 2, cached)
	})

	t.Run("キャッシュがあればそれを使う", func(t *testing.T) {
		roster := newFakeRoster()
		eventRepo := new(MockEventRepository)
		eventRepo.On("GetByID", mock.Anything, "ev-1").Return(&event.Event{ID: "ev-1"}, nil)
		cache := newCountingCache()
		require.NoError(t, cache.Set(ctx, "ev-1", 42))
		svc := newRSVPServiceForTest(roster, eventRepo, nil, cache)

		status, err := svc.Status(ctx, "ev-1")
		require.NoError(t, err)
		assert.Equal(t, 42, status.CurrentCount)
		assert.False(t, status.HasCapacityLimit())
	})

	t.Run("イベントが無ければ NotFound", func(t *testing.T) {
		eventRepo := new(MockEventRepository)
		eventRepo.On("GetByID", mock.Anything, "missing").Return(nil, event.ErrEventNotFound)
		svc := newRSVPServiceForTest(newFakeRoster(), eventRepo, nil, nil)

		_, err := svc.Status(ctx, "missing")
		assert.ErrorIs(t, err, event.ErrEventNotFound)
	})
}

func TestRSVPService_ListRoster(t *testing.T) {
	ctx := context.Background()
	roster := newFakeRoster()
	roster.addEvent("ev-1", nil)
	eventRepo := new(MockEventRepository)
	eventRepo.On("Exists", mock.Anything, "ev-1").Return(true, nil)
	eventRepo.On("Exists", mock.Anything, "missing").Return(false, nil)
	svc := newRSVPServiceForTest(roster, eventRepo, nil, nil)

	for _, u := range []string{"a", "b", "c"} {
		_, err := svc.Register(ctx, "ev-1", u)
		require.NoError(t, err)
	}

	list, err := svc.ListRoster(ctx, "ev-1", 2, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].UserIdentifier)
	assert.Equal(t, "c", list[1].UserIdentifier)

	registered, err := svc.IsRegistered(ctx, "ev-1", "a")
	require.NoError(t, err)
	assert.True(t, registered)

	n, err := svc.Count(ctx, "ev-1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = svc.ListRoster(ctx, "missing", 10, 0)
	assert.ErrorIs(t, err, event.ErrEventNotFound)
}
