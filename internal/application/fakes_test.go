package application

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/comment"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/engagement"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/event"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/rsvp"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/transaction"
)

// fakeRoster はイベント行ロック（FOR UPDATE）と一意制約を再現するインメモリ実装
type fakeRoster struct {
	mu         sync.Mutex
	capacities map[string]*int
	rowLocks   map[string]*sync.Mutex
	entries    map[string][]*rsvp.RSVP
	seq        int
}

func newFakeRoster() *fakeRoster {
	return &fakeRoster{
		capacities: make(map[string]*int),
		rowLocks:   make(map[string]*sync.Mutex),
		entries:    make(map[string][]*rsvp.RSVP),
	}
}

func (f *fakeRoster) addEvent(id string, capacity *int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.capacities[id] = capacity
	f.rowLocks[id] = &sync.Mutex{}
}

func (f *fakeRoster) size(eventID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries[eventID])
}

type fakeTx struct {
	roster  *fakeRoster
	held    []*sync.Mutex
	pending []*rsvp.RSVP
	done    bool
}

func (t *fakeTx) Commit() error {
	if t.done {
		return errors.New("tx already done")
	}
	t.roster.mu.Lock()
	for _, r := range t.pending {
		t.roster.entries[r.EventID] = append(t.roster.entries[r.EventID], r)
	}
	t.roster.mu.Unlock()
	t.finish()
	return nil
}

func (t *fakeTx) Rollback() error {
	if t.done {
		return nil
	}
	t.finish()
	return nil
}

func (t *fakeTx) finish() {
	t.done = true
	for _, m := range t.held {
		m.Unlock()
	}
	t.held = nil
}

type fakeTxManager struct {
	roster *fakeRoster
}

func (m *fakeTxManager) Begin(context.Context) (transaction.Tx, error) {
	return &fakeTx{roster: m.roster}, nil
}

func (f *fakeRoster) LockEvent(_ context.Context, tx transaction.Tx, eventID string) (*int, error) {
	f.mu.Lock()
	rowLock, ok := f.rowLocks[eventID]
	capacity := f.capacities[eventID]
	f.mu.Unlock()
	if !ok {
		return nil, event.ErrEventNotFound
	}

	rowLock.Lock()
	ftx := tx.(*fakeTx)
	ftx.held = append(ftx.held, rowLock)
	return capacity, nil
}

func (f *fakeRoster) ExistsTx(ctx context.Context, tx transaction.Tx, eventID, userIdentifier string) (bool, error) {
	for _, r := range tx.(*fakeTx).pending {
		if r.EventID == eventID && r.UserIdentifier == userIdentifier {
			return true, nil
		}
	}
	return f.Exists(ctx, eventID, userIdentifier)
}

func (f *fakeRoster) CountTx(ctx context.Context, tx transaction.Tx, eventID string) (int, error) {
	n, _ := f.Count(ctx, eventID)
	for _, r := range tx.(*fakeTx).pending {
		if r.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRoster) Insert(ctx context.Context, tx transaction.Tx, r *rsvp.RSVP) error {
	if exists, _ := f.ExistsTx(ctx, tx, r.EventID, r.UserIdentifier); exists {
		return rsvp.ErrAlreadyRegistered
	}
	f.mu.Lock()
	f.seq++
	r.ID = "rsvp-" + strconv.Itoa(f.seq)
	f.mu.Unlock()

	ftx := tx.(*fakeTx)
	ftx.pending = append(ftx.pending, r)
	return nil
}

func (f *fakeRoster) Exists(_ context.Context, eventID, userIdentifier string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.entries[eventID] {
		if r.UserIdentifier == userIdentifier {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRoster) Count(_ context.Context, eventID string) (int, error) {
	return f.size(eventID), nil
}

func (f *fakeRoster) Delete(_ context.Context, eventID, userIdentifier string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.entries[eventID][:0]
	for _, r := range f.entries[eventID] {
		if r.UserIdentifier != userIdentifier {
			kept = append(kept, r)
		}
	}
	f.entries[eventID] = kept
	return nil
}

func (f *fakeRoster) ListByEvent(_ context.Context, eventID string, limit, offset int) ([]*rsvp.RSVP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.entries[eventID]
	if offset >= len(all) {
		return []*rsvp.RSVP{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return append([]*rsvp.RSVP(nil), all[offset:end]...), nil
}

// fakeCounters は単一行の原子的更新を mutex で再現する
type fakeCounters struct {
	mu     sync.Mutex
	counts map[engagement.Target]*engagement.Counts

	failApply int // 残り失敗回数
	failViews bool
}

func newFakeCounters(targets ...engagement.Target) *fakeCounters {
	c := &fakeCounters{counts: make(map[engagement.Target]*engagement.Counts)}
	for _, t := range targets {
		c.counts[t] = &engagement.Counts{}
	}
	return c
}

var errCounterDown = errors.New("counter store unavailable")

func notFoundFor(t engagement.Target) error {
	if t.Kind == engagement.TargetComment {
		return comment.ErrCommentNotFound
	}
	return event.ErrEventNotFound
}

func (c *fakeCounters) ApplyReaction(ctx context.Context, t engagement.Target, d engagement.Delta) (engagement.Counts, error) {
	if err := ctx.Err(); err != nil {
		return engagement.Counts{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cur, ok := c.counts[t]
	if !ok {
		return engagement.Counts{}, notFoundFor(t)
	}
	if c.failApply > 0 {
		c.failApply--
		return engagement.Counts{}, errCounterDown
	}
	cur.Likes += d.Likes
	cur.Dislikes += d.Dislikes
	return *cur, nil
}

func (c *fakeCounters) IncrementViews(ctx context.Context, eventID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cur, ok := c.counts[engagement.EventTarget(eventID)]
	if !ok {
		return 0, event.ErrEventNotFound
	}
	if c.failViews {
		return 0, errCounterDown
	}
	cur.Views++
	return cur.Views, nil
}

func (c *fakeCounters) Get(_ context.Context, t engagement.Target) (engagement.Counts, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur, ok := c.counts[t]
	if !ok {
		return engagement.Counts{}, notFoundFor(t)
	}
	return *cur, nil
}

// failingSessionStore は SaveReactions / MarkViewed を失敗させるラッパー
type failingSessionStore struct {
	engagement.SessionStore
	failSave bool
	failMark bool
}

var errSessionDown = errors.New("session store unavailable")

func (s *failingSessionStore) SaveReactions(ctx context.Context, sessionID string, t engagement.Target, st engagement.ReactionState) error {
	if s.failSave {
		return errSessionDown
	}
	return s.SessionStore.SaveReactions(ctx, sessionID, t, st)
}

func (s *failingSessionStore) MarkViewed(ctx context.Context, sessionID, eventID string) (bool, error) {
	if s.failMark {
		return false, errSessionDown
	}
	return s.SessionStore.MarkViewed(ctx, sessionID, eventID)
}

// cancellingSessionStore は書き込みの途中でクライアントが切断した状況を再現する
// cancel を呼んだ後、ctx を見る操作は ctx.Err() を返す
type cancellingSessionStore struct {
	engagement.SessionStore
	cancel       context.CancelFunc
	cancelOnSave bool
	cancelOnMark bool
}

func (s *cancellingSessionStore) SaveReactions(ctx context.Context, sessionID string, t engagement.Target, st engagement.ReactionState) error {
	if s.cancelOnSave {
		s.cancel()
		return ctx.Err()
	}
	return s.SessionStore.SaveReactions(ctx, sessionID, t, st)
}

func (s *cancellingSessionStore) MarkViewed(ctx context.Context, sessionID, eventID string) (bool, error) {
	first, err := s.SessionStore.MarkViewed(ctx, sessionID, eventID)
	if s.cancelOnMark {
		s.cancel()
	}
	return first, err
}

func (s *cancellingSessionStore) UnmarkViewed(ctx context.Context, sessionID, eventID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.SessionStore.UnmarkViewed(ctx, sessionID, eventID)
}

var (
	_ rsvp.Repository         = (*fakeRoster)(nil)
	_ transaction.Manager     = (*fakeTxManager)(nil)
	_ engagement.Counters     = (*fakeCounters)(nil)
	_ engagement.SessionStore = (*failingSessionStore)(nil)
	_ engagement.SessionStore = (*cancellingSessionStore)(nil)
)
