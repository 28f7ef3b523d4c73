package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/comment"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/event"
)

type commentRow struct {
	ID           string    `db:"id"`
	EventID      string    `db:"event_id"`
	AuthorName   string    `db:"author_name"`
	Text         string    `db:"text"`
	LikeCount    int       `db:"like_count"`
	DislikeCount int       `db:"dislike_count"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r *commentRow) toEntity() *comment.Comment {
	return &comment.Comment{
		ID:           r.ID,
		EventID:      r.EventID,
		AuthorName:   r.AuthorName,
		Text:         r.Text,
		LikeCount:    r.LikeCount,
		DislikeCount: r.DislikeCount,
		CreatedAt:    r.CreatedAt,
	}
}

// CommentRepository はコメントリポジトリのPostgreSQL実装
type CommentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create はコメントを追加する。イベントが存在しなければ event.ErrEventNotFound
func (r *CommentRepository) Create(ctx context.Context, c *comment.Comment) error {
	query := `
		INSERT INTO comments (event_id, author_name, text, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, query, c.EventID, c.AuthorName, c.Text, c.CreatedAt).Scan(&c.ID); err != nil {
		if isForeignKeyViolation(err) || isInvalidText(err) {
			return event.ErrEventNotFound
		}
		return fmt.Errorf("コメント作成に失敗しました: %w", err)
	}
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*comment.Comment, error) {
	var row commentRow
	query := `SELECT id, event_id, author_name, text, like_count, dislike_count, created_at FROM comments WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
			return nil, comment.ErrCommentNotFound
		}
		return nil, fmt.Errorf("コメント取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// ListByEvent はイベントのコメントを新しい順に返す
func (r *CommentRepository) ListByEvent(ctx context.Context, eventID string, limit, offset int) ([]*comment.Comment, error) {
	var rows []commentRow
	query := `
		SELECT id, event_id, author_name, text, like_count, dislike_count, created_at
		FROM comments
		WHERE event_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &rows, query, eventID, limit, offset); err != nil {
		if isInvalidText(err) {
			return []*comment.Comment{}, nil
		}
		return nil, fmt.Errorf("コメント一覧取得に失敗しました: %w", err)
	}
	comments := make([]*comment.Comment, len(rows))
	for i := range rows {
		comments[i] = rows[i].toEntity()
	}
	return comments, nil
}

var _ comment.Repository = (*CommentRepository)(nil)
