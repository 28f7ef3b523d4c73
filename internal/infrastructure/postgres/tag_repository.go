package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/tag"
)

type tagRow struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

func (r *tagRow) toEntity() *tag.Tag {
	return &tag.Tag{ID: r.ID, Name: r.Name}
}

// TagRepository はタグリポジトリのPostgreSQL実装
type TagRepository struct {
	db *sqlx.DB
}

func NewTagRepository(db *sqlx.DB) *TagRepository {
	return &TagRepository{db: db}
}

// FindOrCreate は正規化済みの名前でタグを取得し、無ければ作成する
// 同名タグの同時作成は ON CONFLICT で吸収する
func (r *TagRepository) FindOrCreate(ctx context.Context, name string) (*tag.Tag, error) {
	name = tag.Normalize(name)
	if name == "" {
		return nil, tag.ErrNameRequired
	}

	query := `
		INSERT INTO tags (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name
	`
	var row tagRow
	if err := r.db.GetContext(ctx, &row, query, name); err != nil {
		return nil, fmt.Errorf("タグ作成に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

func (r *TagRepository) GetByID(ctx context.Context, id string) (*tag.Tag, error) {
	var row tagRow
	if err := r.db.GetContext(ctx, &row, `SELECT id, name FROM tags WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
			return nil, tag.ErrTagNotFound
		}
		return nil, fmt.Errorf("タグ取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

func (r *TagRepository) List(ctx context.Context) ([]*tag.Tag, error) {
	return r.selectTags(ctx, `SELECT id, name FROM tags ORDER BY name`)
}

func (r *TagRepository) ListByEvent(ctx context.Context, eventID string) ([]*tag.Tag, error) {
	query := `
		SELECT t.id, t.name
		FROM tags t
		JOIN event_tags et ON et.tag_id = t.id
		WHERE et.event_id = $1
		ORDER BY t.name
	`
	tags, err := r.selectTags(ctx, query, eventID)
	if err != nil && isInvalidText(err) {
		return []*tag.Tag{}, nil
	}
	return tags, err
}

func (r *TagRepository) selectTags(ctx context.Context, query string, args ...interface{}) ([]*tag.Tag, error) {
	var rows []tagRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("タグ一覧取得に失敗しました: %w", err)
	}
	tags := make([]*tag.Tag, len(rows))
	for i := range rows {
		tags[i] = rows[i].toEntity()
	}
	return tags, nil
}

var _ tag.Repository = (*TagRepository)(nil)
