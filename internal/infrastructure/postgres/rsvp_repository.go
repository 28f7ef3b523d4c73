package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/event"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/rsvp"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/transaction"
)

type rsvpRow struct {
	ID             string    `db:"id"`
	EventID        string    `db:"event_id"`
	UserIdentifier string    `db:"user_identifier"`
	RegisteredAt   time.Time `db:"registered_at"`
}

func (r *rsvpRow) toEntity() *rsvp.RSVP {
	return &rsvp.RSVP{
		ID:             r.ID,
		EventID:        r.EventID,
		UserIdentifier: r.UserIdentifier,
		RegisteredAt:   r.RegisteredAt,
	}
}

// RSVPRepository は参加登録リポジトリのPostgreSQL実装
type RSVPRepository struct {
	db *sqlx.DB
}

func NewRSVPRepository(db *sqlx.DB) *RSVPRepository {
	return &RSVPRepository{db: db}
}

// LockEvent はイベント行を SELECT ... FOR UPDATE でロックする
// 同一イベントへの登録はこのロックでトランザクション単位に直列化される
func (r *RSVPRepository) LockEvent(ctx context.Context, tx transaction.Tx, eventID string) (*int, error) {
	sqlTx, err := unwrapTx(tx)
	if err != nil {
		return nil, err
	}

	var capacity sql.NullInt64
	if err := sqlTx.GetContext(ctx, &capacity, `SELECT max_capacity FROM events WHERE id = $1 FOR UPDATE`, eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベントのロックに失敗しました: %w", err)
	}
	if !capacity.Valid {
		return nil, nil
	}
	c := int(capacity.Int64)
	return &c, nil
}

func (r *RSVPRepository) ExistsTx(ctx context.Context, tx transaction.Tx, eventID, userIdentifier string) (bool, error) {
	sqlTx, err := unwrapTx(tx)
	if err != nil {
		return false, err
	}
	return r.exists(ctx, sqlTx, eventID, userIdentifier)
}

func (r *RSVPRepository) CountTx(ctx context.Context, tx transaction.Tx, eventID string) (int, error) {
	sqlTx, err := unwrapTx(tx)
	if err != nil {
		return 0, err
	}
	return r.count(ctx, sqlTx, eventID)
}

// Insert は登録を追加する。(event_id, user_identifier) の一意制約違反は ErrAlreadyRegistered
func (r *RSVPRepository) Insert(ctx context.Context, tx transaction.Tx, res *rsvp.RSVP) error {
	sqlTx, err := unwrapTx(tx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO rsvps (event_id, user_identifier, registered_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := sqlTx.QueryRowContext(ctx, query, res.EventID, res.UserIdentifier, res.RegisteredAt).Scan(&res.ID); err != nil {
		if isUniqueViolation(err) {
			return rsvp.ErrAlreadyRegistered
		}
		if isForeignKeyViolation(err) {
			return event.ErrEventNotFound
		}
		return fmt.Errorf("参加登録に失敗しました: %w", err)
	}
	return nil
}

func (r *RSVPRepository) Exists(ctx context.Context, eventID, userIdentifier string) (bool, error) {
	return r.exists(ctx, r.db, eventID, userIdentifier)
}

func (r *RSVPRepository) Count(ctx context.Context, eventID string) (int, error) {
	return r.count(ctx, r.db, eventID)
}

// Delete は登録を取り消す。該当が無くてもエラーにしない
func (r *RSVPRepository) Delete(ctx context.Context, eventID, userIdentifier string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM rsvps WHERE event_id = $1 AND user_identifier = $2`, eventID, userIdentifier)
	if err != nil && !isInvalidText(err) {
		return fmt.Errorf("参加登録の取り消しに失敗しました: %w", err)
	}
	return nil
}

// ListByEvent はロスターを登録順に返す
func (r *RSVPRepository) ListByEvent(ctx context.Context, eventID string, limit, offset int) ([]*rsvp.RSVP, error) {
	var rows []rsvpRow
	query := `
		SELECT id, event_id, user_identifier, registered_at
		FROM rsvps
		WHERE event_id = $1
		ORDER BY registered_at, id
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &rows, query, eventID, limit, offset); err != nil {
		if isInvalidText(err) {
			return []*rsvp.RSVP{}, nil
		}
		return nil, fmt.Errorf("ロスター取得に失敗しました: %w", err)
	}
	result := make([]*rsvp.RSVP, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

func (r *RSVPRepository) exists(ctx context.Context, q sqlx.QueryerContext, eventID, userIdentifier string) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, q, &exists,
		`SELECT EXISTS (SELECT 1 FROM rsvps WHERE event_id = $1 AND user_identifier = $2)`,
		eventID, userIdentifier,
	)
	if err != nil {
		if isInvalidText(err) {
			return false, nil
		}
		return false, fmt.Errorf("参加登録の確認に失敗しました: %w", err)
	}
	return exists, nil
}

func (r *RSVPRepository) count(ctx context.Context, q sqlx.QueryerContext, eventID string) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, q, &n, `SELECT COUNT(*) FROM rsvps WHERE event_id = $1`, eventID); err != nil {
		if isInvalidText(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("参加登録数の取得に失敗しました: %w", err)
	}
	return n, nil
}

var _ rsvp.Repository = (*RSVPRepository)(nil)
