package engagement

import (
	"context"
	"time"
)

// SessionStore はセッション単位のリアクション・閲覧フラグを保持する
// キーは (セッションID, 対象) で、セッションの有効期限を過ぎたものは破棄される
type SessionStore interface {
	// Reactions は現在のリアクション状態を返す（未記録ならゼロ値）
	Reactions(ctx context.Context, sessionID string, target Target) (ReactionState, error)

	// SaveReactions はリアクション状態を保存する
	SaveReactions(ctx context.Context, sessionID string, target Target, state ReactionState) error

	// MarkViewed は閲覧フラグを未設定の場合のみ設定し、新たに設定したかを返す
	MarkViewed(ctx context.Context, sessionID, eventID string) (bool, error)

	// UnmarkViewed は閲覧フラグを取り消す（カウンタ更新失敗時の補償）
	UnmarkViewed(ctx context.Context, sessionID, eventID string) error
}

// Evictor は期限切れセッションを破棄できるストア
type Evictor interface {
	EvictExpired(ctx context.Context, now time.Time) (int, error)
}

// Counters は対象のカウンタを単一行の原子的更新で増減する
type Counters interface {
	// ApplyReaction はいいね・よくないね数に delta を加え、更新後の値を返す
	// 対象が存在しない場合は event.ErrEventNotFound / comment.ErrCommentNotFound
	ApplyReaction(ctx context.Context, target Target, delta Delta) (Counts, error)

	// IncrementViews はイベントの閲覧数を1増やし、更新後の値を返す
	IncrementViews(ctx context.Context, eventID string) (int, error)

	// Get は現在のカウンタ値を返す
	Get(ctx context.Context, target Target) (Counts, error)
}
