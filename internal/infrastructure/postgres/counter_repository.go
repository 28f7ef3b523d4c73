package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/comment"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/engagement"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/event"
)

type countsRow struct {
	Views    int `db:"views"`
	Likes    int `db:"like_count"`
	Dislikes int `db:"dislike_count"`
}

func (r *countsRow) toCounts() engagement.Counts {
	return engagement.Counts{Views: r.Views, Likes: r.Likes, Dislikes: r.Dislikes}
}

// CounterRepository はイベント・コメントのカウンタを単一行の UPDATE で増減する
// 読み取り→書き戻しを行わないため、同時更新でも増分が失われない
type CounterRepository struct {
	db *sqlx.DB
}

func NewCounterRepository(db *sqlx.DB) *CounterRepository {
	return &CounterRepository{db: db}
}

// ApplyReaction はいいね・よくないね数に delta を加算する
// GREATEST で 0 未満にならないようにする
func (r *CounterRepository) ApplyReaction(ctx context.Context, target engagement.Target, delta engagement.Delta) (engagement.Counts, error) {
	table, notFound, ok := counterTable(target)
	if !ok {
		return engagement.Counts{}, fmt.Errorf("未対応の対象種別です: %s", target.Kind)
	}

	viewsExpr := "0 AS views"
	if target.Kind == engagement.TargetEvent {
		viewsExpr = "views"
	}
	query := `
		UPDATE ` + table + `
		SET like_count = GREATEST(like_count + $1, 0),
		    dislike_count = GREATEST(dislike_count + $2, 0)
		WHERE id = $3
		RETURNING ` + viewsExpr + `, like_count, dislike_count
	`
	var row countsRow
	if err := r.db.GetContext(ctx, &row, query, delta.Likes, delta.Dislikes, target.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
			return engagement.Counts{}, notFound
		}
		return engagement.Counts{}, fmt.Errorf("リアクション数の更新に失敗しました: %w", err)
	}
	return row.toCounts(), nil
}

func (r *CounterRepository) IncrementViews(ctx context.Context, eventID string) (int, error) {
	var views int
	err := r.db.GetContext(ctx, &views, `UPDATE events SET views = views + 1 WHERE id = $1 RETURNING views`, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
			return 0, event.ErrEventNotFound
		}
		return 0, fmt.Errorf("閲覧数の更新に失敗しました: %w", err)
	}
	return views, nil
}

func (r *CounterRepository) Get(ctx context.Context, target engagement.Target) (engagement.Counts, error) {
	table, notFound, ok := counterTable(target)
	if !ok {
		return engagement.Counts{}, fmt.Errorf("未対応の対象種別です: %s", target.Kind)
	}

	viewsExpr := "0 AS views"
	if target.Kind == engagement.TargetEvent {
		viewsExpr = "views"
	}
	var row countsRow
	query := `SELECT ` + viewsExpr + `, like_count, dislike_count FROM ` + table + ` WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, target.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
			return engagement.Counts{}, notFound
		}
		return engagement.Counts{}, fmt.Errorf("カウンタ取得に失敗しました: %w", err)
	}
	return row.toCounts(), nil
}

// counterTable は対象種別に対応するテーブルと NotFound エラーを返す
func counterTable(target engagement.Target) (table string, notFound error, ok bool) {
	switch target.Kind {
	case engagement.TargetEvent:
		return "events", event.ErrEventNotFound, true
	case engagement.TargetComment:
		return "comments", comment.ErrCommentNotFound, true
	default:
		return "", nil, false
	}
}

var _ engagement.Counters = (*CounterRepository)(nil)
