package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/category"
)

type categoryRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *categoryRow) toEntity() *category.Category {
	return &category.Category{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// CategoryRepository はカテゴリリポジトリのPostgreSQL実装
type CategoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	query := `
		INSERT INTO categories (name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, query, c.Name, c.Description, c.CreatedAt, c.UpdatedAt).Scan(&c.ID); err != nil {
		if isUniqueViolation(err) {
			return category.ErrNameAlreadyExists
		}
		return fmt.Errorf("カテゴリ作成に失敗しました: %w", err)
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*category.Category, error) {
	var row categoryRow
	query := `SELECT id, name, description, created_at, updated_at FROM categories WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("カテゴリ取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// List はカテゴリを名前順に返す
func (r *CategoryRepository) List(ctx context.Context, limit, offset int) ([]*category.Category, error) {
	var rows []categoryRow
	query := `SELECT id, name, description, created_at, updated_at FROM categories ORDER BY name LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("カテゴリ一覧取得に失敗しました: %w", err)
	}
	categories := make([]*category.Category, len(rows))
	for i := range rows {
		categories[i] = rows[i].toEntity()
	}
	return categories, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *category.Category) error {
	c.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = $1, description = $2, updated_at = $3 WHERE id = $4`,
		c.Name, c.Description, c.UpdatedAt, c.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return category.ErrNameAlreadyExists
		}
		if isInvalidText(err) {
			return category.ErrCategoryNotFound
		}
		return fmt.Errorf("カテゴリ更新に失敗しました: %w", err)
	}
	return expectAffected(result, category.ErrCategoryNotFound)
}

// Delete はカテゴリを削除する。参照するイベントが残っている場合は ErrCategoryHasEvents
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return category.ErrCategoryHasEvents
		}
		if isInvalidText(err) {
			return category.ErrCategoryNotFound
		}
		return fmt.Errorf("カテゴリ削除に失敗しました: %w", err)
	}
	return expectAffected(result, category.ErrCategoryNotFound)
}

func (r *CategoryRepository) HasEvents(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM events WHERE category_id = $1)`, id); err != nil {
		if isInvalidText(err) {
			return false, nil
		}
		return false, fmt.Errorf("カテゴリ参照確認に失敗しました: %w", err)
	}
	return exists, nil
}

var _ category.Repository = (*CategoryRepository)(nil)
