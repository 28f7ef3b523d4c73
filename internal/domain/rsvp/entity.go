package rsvp

import (
	"strings"
	"time"
)

// RSVP はイベントへの参加登録（ロスターの1エントリ）を表す
// (EventID, UserIdentifier) の組は一意
type RSVP struct {
	ID             string
	EventID        string
	UserIdentifier string // ユーザーIDまたはメールアドレス
	RegisteredAt   time.Time
}

// NewRSVP は新しい参加登録を作成する。登録日時はサーバー側で付与する
func NewRSVP(eventID, userIdentifier string) *RSVP {
	return &RSVP{
		EventID:        eventID,
		UserIdentifier: strings.TrimSpace(userIdentifier),
		RegisteredAt:   time.Now(),
	}
}

// Validate は参加登録の検証を行う
func (r *RSVP) Validate() error {
	if r.EventID == "" {
		return ErrEventIDRequired
	}
	if r.UserIdentifier == "" {
		return ErrUserIdentifierRequired
	}
	return nil
}

// Status はイベントの登録状況を表す
type Status struct {
	EventID      string
	CurrentCount int
	MaxCapacity  *int
}

// HasCapacityLimit は定員が設定されているかを返す
func (s Status) HasCapacityLimit() bool {
	return s.MaxCapacity != nil && *s.MaxCapacity > 0
}

// IsFull は満員かを返す
func (s Status) IsFull() bool {
	return s.HasCapacityLimit() && s.CurrentCount >= *s.MaxCapacity
}

// CanRegister は新規登録を受け付けられるかを返す
func (s Status) CanRegister() bool {
	return !s.IsFull()
}
