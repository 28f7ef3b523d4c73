// Package memory はプロセス内で完結するセッションストアとロックを提供する
// 単一インスタンス構成やテストで使用する
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/engagement"
)

type sessionEntry struct {
	reactions map[engagement.Target]engagement.ReactionState
	viewed    map[string]struct{}
	expiresAt time.Time
}

// SessionStore はセッション単位のフラグをメモリ上に保持する
// アクセスのたびに有効期限を延長し、期限切れのセッションは EvictExpired で破棄する
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*sessionEntry
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*sessionEntry),
	}
}

// touch はセッションを取得（期限切れなら作り直し）して有効期限を延長する。mu を保持して呼ぶこと
func (s *SessionStore) touch(sessionID string) *sessionEntry {
	now := s.now()
	e, ok := s.sessions[sessionID]
	if !ok || !now.Before(e.expiresAt) {
		e = &sessionEntry{
			reactions: make(map[engagement.Target]engagement.ReactionState),
			viewed:    make(map[string]struct{}),
		}
		s.sessions[sessionID] = e
	}
	e.expiresAt = now.Add(s.ttl)
	return e
}

func (s *SessionStore) Reactions(_ context.Context, sessionID string, target engagement.Target) (engagement.ReactionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touch(sessionID).reactions[target], nil
}

func (s *SessionStore) SaveReactions(_ context.Context, sessionID string, target engagement.Target, state engagement.ReactionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.touch(sessionID)
	if state == (engagement.ReactionState{}) {
		delete(e.reactions, target)
		return nil
	}
	e.reactions[target] = state
	return nil
}

func (s *SessionStore) MarkViewed(_ context.Context, sessionID, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.touch(sessionID)
	if _, seen := e.viewed[eventID]; seen {
		return false, nil
	}
	e.viewed[eventID] = struct{}{}
	return true, nil
}

func (s *SessionStore) UnmarkViewed(_ context.Context, sessionID, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sessions[sessionID]; ok {
		delete(e.viewed, eventID)
	}
	return nil
}

// EvictExpired は now 時点で期限切れのセッションを破棄し、破棄した件数を返す
func (s *SessionStore) EvictExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted, nil
}

// Len は保持しているセッション数を返す
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

var (
	_ engagement.SessionStore = (*SessionStore)(nil)
	_ engagement.Evictor      = (*SessionStore)(nil)
)
