package category

import (
	"errors"
	"strings"
	"time"
)

// Category ドメインのエラー定義
var (
	ErrCategoryNotFound    = errors.New("カテゴリが見つかりません")
	ErrNameRequired        = errors.New("カテゴリ名は必須です")
	ErrDescriptionRequired = errors.New("カテゴリの説明は必須です")
	ErrNameAlreadyExists   = errors.New("同じ名前のカテゴリが既に存在します")
	ErrCategoryHasEvents   = errors.New("イベントが存在するカテゴリは削除できません")
)

// Category はイベントのカテゴリを表す
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCategory は新しいカテゴリを作成する
func NewCategory(name, description string) *Category {
	now := time.Now()
	return &Category{
		Name:        strings.TrimSpace(name),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate はカテゴリの検証を行う
func (c *Category) Validate() error {
	if c.Name == "" {
		return ErrNameRequired
	}
	if c.Description == "" {
		return ErrDescriptionRequired
	}
	return nil
}
