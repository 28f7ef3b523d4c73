package tag

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrTagNotFound  = errors.New("タグが見つかりません")
	ErrNameRequired = errors.New("タグ名は必須です")
)

// Tag はイベントに付与するタグ
type Tag struct {
	ID   string
	Name string
}

// Normalize はタグ名を正規化する（前後の空白除去・小文字化）
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Repository はタグリポジトリのインターフェース
type Repository interface {
	// FindOrCreate は名前でタグを取得し、存在しなければ作成する
	FindOrCreate(ctx context.Context, name string) (*Tag, error)
	GetByID(ctx context.Context, id string) (*Tag, error)
	List(ctx context.Context) ([]*Tag, error)
	ListByEvent(ctx context.Context, eventID string) ([]*Tag, error)
}
