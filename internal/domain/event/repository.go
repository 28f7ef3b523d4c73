package event

import (
	"context"
	"time"
)

// Filter はイベント一覧の絞り込み条件
// 空のフィールドは条件に含めない
type Filter struct {
	CategoryID   string
	TagID        string
	AuthorID     string
	Search       string
	// CreatedSince がゼロ値でなければ、それ以降に作成されたものに絞る
	CreatedSince time.Time
}

// Order は一覧の並び順
type Order string

const (
	OrderLatest      Order = "latest"
	OrderMostVisited Order = "most_visited"
	OrderMostReacted Order = "most_reacted"
)

// Repository はイベントリポジトリのインターフェース
type Repository interface {
	// Create は新しいイベントを作成する
	Create(ctx context.Context, event *Event) error

	// GetByID はIDからイベントを取得する
	GetByID(ctx context.Context, id string) (*Event, error)

	// Exists はイベントが存在するかを返す
	Exists(ctx context.Context, id string) (bool, error)

	// List は条件に一致するイベント一覧を取得する
	List(ctx context.Context, filter Filter, order Order, limit, offset int) ([]*Event, error)

	// Update はイベントの編集可能な項目を更新する（カウンタは更新しない）
	Update(ctx context.Context, event *Event) error

	// Delete はイベントを削除する
	Delete(ctx context.Context, id string) error

	// SetTags はイベントのタグを置き換える
	SetTags(ctx context.Context, eventID string, tagIDs []string) error

	// ListSimilar はタグを共有するイベントを共有数の多い順に返す（自身は含まない）
	ListSimilar(ctx context.Context, eventID string, limit int) ([]*Event, error)
}
