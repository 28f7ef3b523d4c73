package comment

import (
	"context"
	"errors"
	"time"
)

// Comment ドメインのエラー定義
var (
	ErrCommentNotFound    = errors.New("コメントが見つかりません")
	ErrAuthorNameRequired = errors.New("投稿者名は必須です")
	ErrTextRequired       = errors.New("コメント本文は必須です")
)

// Comment はイベントへのコメントを表す
type Comment struct {
	ID           string
	EventID      string
	AuthorName   string
	Text         string
	LikeCount    int
	DislikeCount int
	CreatedAt    time.Time
}

// NewComment は新しいコメントを作成する（カウンタは常に0から始まる）
func NewComment(eventID, authorName, text string) *Comment {
	return &Comment{
		EventID:    eventID,
		AuthorName: authorName,
		Text:       text,
		CreatedAt:  time.Now(),
	}
}

// Validate はコメントの検証を行う
func (c *Comment) Validate() error {
	if c.AuthorName == "" {
		return ErrAuthorNameRequired
	}
	if c.Text == "" {
		return ErrTextRequired
	}
	return nil
}

// Repository はコメントリポジトリのインターフェース
type Repository interface {
	Create(ctx context.Context, c *Comment) error
	GetByID(ctx context.Context, id string) (*Comment, error)
	ListByEvent(ctx context.Context, eventID string, limit, offset int) ([]*Comment, error)
}
