package rsvp

import (
	"context"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/transaction"
)

// Repository は参加登録リポジトリのインターフェース
type Repository interface {
	// LockEvent はトランザクション内でイベント行を排他ロックし、定員（nil は無制限）を返す
	// イベントが存在しない場合は event.ErrEventNotFound
	LockEvent(ctx context.Context, tx transaction.Tx, eventID string) (maxCapacity *int, err error)

	// ExistsTx はトランザクション内で (eventID, userIdentifier) の登録有無を返す
	ExistsTx(ctx context.Context, tx transaction.Tx, eventID, userIdentifier string) (bool, error)

	// CountTx はトランザクション内でイベントの登録数を返す
	CountTx(ctx context.Context, tx transaction.Tx, eventID string) (int, error)

	// Insert は登録を追加する。一意制約違反は ErrAlreadyRegistered
	Insert(ctx context.Context, tx transaction.Tx, r *RSVP) error

	// Exists は (eventID, userIdentifier) の登録有無を返す
	Exists(ctx context.Context, eventID, userIdentifier string) (bool, error)

	// Count はイベントの登録数を返す
	Count(ctx context.Context, eventID string) (int, error)

	// Delete は登録を削除する。存在しなくてもエラーにしない
	Delete(ctx context.Context, eventID, userIdentifier string) error

	// ListByEvent はイベントのロスターを登録順に返す
	ListByEvent(ctx context.Context, eventID string, limit, offset int) ([]*RSVP, error)
}

// CountCache はイベントの登録数のキャッシュ
// キャッシュはあくまで参照用で、定員判定には使わない
type CountCache interface {
	// Get はキャッシュされた登録数を返す。ok=false はキャッシュミス
	Get(ctx context.Context, eventID string) (count int, ok bool, err error)
	Set(ctx context.Context, eventID string, count int) error
	Invalidate(ctx context.Context, eventID string) error
}
