package category

import "context"

// Repository はカテゴリリポジトリのインターフェース
type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context, limit, offset int) ([]*Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) error
	// HasEvents はカテゴリを参照するイベントが存在するかを返す
	HasEvents(ctx context.Context, id string) (bool, error)
}
