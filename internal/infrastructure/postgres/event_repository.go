package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/category"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/event"
)

const eventColumns = `e.id, e.title, e.description, e.location, e.event_date, e.author_id, e.category_id,
	e.max_capacity, e.views, e.like_count, e.dislike_count, e.created_at, e.updated_at`

// eventRow はDBの行を表す構造体
type eventRow struct {
	ID           string        `db:"id"`
	Title        string        `db:"title"`
	Description  string        `db:"description"`
	Location     string        `db:"location"`
	EventDate    time.Time     `db:"event_date"`
	AuthorID     string        `db:"author_id"`
	CategoryID   string        `db:"category_id"`
	MaxCapacity  sql.NullInt64 `db:"max_capacity"`
	Views        int           `db:"views"`
	LikeCount    int           `db:"like_count"`
	DislikeCount int           `db:"dislike_count"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

func (r *eventRow) toEntity() *event.Event {
	e := &event.Event{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Location:     r.Location,
		EventDate:    r.EventDate,
		AuthorID:     r.AuthorID,
		CategoryID:   r.CategoryID,
		Views:        r.Views,
		LikeCount:    r.LikeCount,
		DislikeCount: r.DislikeCount,
		Tags:         []string{},
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.MaxCapacity.Valid {
		capacity := int(r.MaxCapacity.Int64)
		e.MaxCapacity = &capacity
	}
	return e
}

func capacityArg(capacity *int) sql.NullInt64 {
	if capacity == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*capacity), Valid: true}
}

// EventRepository はイベントリポジトリのPostgreSQL実装
type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create は新しいイベントを作成する。カウンタは常に0から始まる
func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	query := `
		INSERT INTO events (title, description, location, event_date, author_id, category_id, max_capacity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Location, e.EventDate, e.AuthorID, e.CategoryID,
		capacityArg(e.MaxCapacity), e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidText(err) {
			return category.ErrCategoryNotFound
		}
		return fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	e.Views, e.LikeCount, e.DislikeCount = 0, 0, 0
	return nil
}

// GetByID はIDからイベントを取得する（タグを含む）
func (r *EventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.id = $1`

	var row eventRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベント取得に失敗しました: %w", err)
	}

	e := row.toEntity()
	if err := r.attachTags(ctx, []*event.Event{e}); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *EventRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, id); err != nil {
		if isInvalidText(err) {
			return false, nil
		}
		return false, fmt.Errorf("イベント存在確認に失敗しました: %w", err)
	}
	return exists, nil
}

// List は条件に一致するイベントを order の順に返す
func (r *EventRepository) List(ctx context.Context, filter event.Filter, order event.Order, limit, offset int) ([]*event.Event, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.CategoryID != "" {
		conds = append(conds, "e.category_id = "+arg(filter.CategoryID))
	}
	if filter.AuthorID != "" {
		conds = append(conds, "e.author_id = "+arg(filter.AuthorID))
	}
	if filter.TagID != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM event_tags et WHERE et.event_id = e.id AND et.tag_id = "+arg(filter.TagID)+")")
	}
	if filter.Search != "" {
		p := arg("%" + escapeLike(filter.Search) + "%")
		conds = append(conds, "(e.title ILIKE "+p+" OR e.description ILIKE "+p+")")
	}
	if !filter.CreatedSince.IsZero() {
		conds = append(conds, "e.created_at >= "+arg(filter.CreatedSince))
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + eventColumns + ` FROM events e`)
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY " + orderClause(order))
	b.WriteString(" LIMIT " + arg(limit) + " OFFSET " + arg(offset))

	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, b.String(), args...); err != nil {
		if isInvalidText(err) {
			return []*event.Event{}, nil
		}
		return nil, fmt.Errorf("イベント一覧取得に失敗しました: %w", err)
	}

	events := make([]*event.Event, len(rows))
	for i := range rows {
		events[i] = rows[i].toEntity()
	}
	if err := r.attachTags(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

func orderClause(order event.Order) string {
	switch order {
	case event.OrderMostVisited:
		return "e.views DESC, e.created_at DESC"
	case event.OrderMostReacted:
		return "(e.like_count + e.dislike_count) DESC, e.created_at DESC"
	default:
		return "e.created_at DESC"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// attachTags は一覧のイベントにタグ名をまとめて付与する
func (r *EventRepository) attachTags(ctx context.Context, events []*event.Event) error {
	if len(events) == 0 {
		return nil
	}
	ids := make([]string, len(events))
	byID := make(map[string]*event.Event, len(events))
	for i, e := range events {
		ids[i] = e.ID
		byID[e.ID] = e
	}

	query := `
		SELECT et.event_id, t.name
		FROM event_tags et
		JOIN tags t ON t.id = et.tag_id
		WHERE et.event_id = ANY($1::uuid[])
		ORDER BY t.name
	`
	var rows []struct {
		EventID string `db:"event_id"`
		Name    string `db:"name"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("イベントのタグ取得に失敗しました: %w", err)
	}
	for _, row := range rows {
		if e, ok := byID[row.EventID]; ok {
			e.Tags = append(e.Tags, row.Name)
		}
	}
	return nil
}

// Update は編集可能な項目のみを更新する
// views / like_count / dislike_count はここでは変更しない
func (r *EventRepository) Update(ctx context.Context, e *event.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, location = $3, event_date = $4,
		    category_id = $5, max_capacity = $6, updated_at = $7
		WHERE id = $8
	`
	e.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query,
		e.Title, e.Description, e.Location, e.EventDate, e.CategoryID,
		capacityArg(e.MaxCapacity), e.UpdatedAt, e.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return category.ErrCategoryNotFound
		}
		if isInvalidText(err) {
			return event.ErrEventNotFound
		}
		return fmt.Errorf("イベント更新に失敗しました: %w", err)
	}
	return expectAffected(result, event.ErrEventNotFound)
}

// Delete はイベントを削除する（コメント・参加登録・タグ付けは連鎖削除される）
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		if isInvalidText(err) {
			return event.ErrEventNotFound
		}
		return fmt.Errorf("イベント削除に失敗しました: %w", err)
	}
	return expectAffected(result, event.ErrEventNotFound)
}

// SetTags はイベントのタグ付けを tagIDs で置き換える
func (r *EventRepository) SetTags(ctx context.Context, eventID string, tagIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_tags WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("タグ付けの削除に失敗しました: %w", err)
	}
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO event_tags (event_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			eventID, tagID,
		); err != nil {
			if isForeignKeyViolation(err) {
				return event.ErrEventNotFound
			}
			return fmt.Errorf("タグ付けに失敗しました: %w", err)
		}
	}
	return tx.Commit()
}

func (r *EventRepository) ListSimilar(ctx context.Context, eventID string, limit int) ([]*event.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		JOIN (
			SELECT other.event_id, COUNT(*) AS shared
			FROM event_tags mine
			JOIN event_tags other ON other.tag_id = mine.tag_id AND other.event_id <> mine.event_id
			WHERE mine.event_id = $1
			GROUP BY other.event_id
		) s ON s.event_id = e.id
		ORDER BY s.shared DESC, e.created_at DESC
		LIMIT $2
	`
	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, eventID, limit); err != nil {
		if isInvalidText(err) {
			return []*event.Event{}, nil
		}
		return nil, fmt.Errorf("関連イベント取得に失敗しました: %w", err)
	}

	events := make([]*event.Event, len(rows))
	for i := range rows {
		events[i] = rows[i].toEntity()
	}
	if err := r.attachTags(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

// インターフェースを満たしているか確認
var _ event.Repository = (*EventRepository)(nil)
