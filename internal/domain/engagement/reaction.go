package engagement

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownAction   = errors.New("不明なリアクションです")
	ErrSessionRequired = errors.New("セッションが必要です")
)

// TargetKind はリアクション・閲覧の対象種別
type TargetKind string

const (
	TargetEvent   TargetKind = "event"
	TargetComment TargetKind = "comment"
)

// Target はカウンタを持つ対象（イベントまたはコメント）
type Target struct {
	Kind TargetKind
	ID   string
}

// EventTarget はイベントを対象とする Target を返す
func EventTarget(id string) Target { return Target{Kind: TargetEvent, ID: id} }

// CommentTarget はコメントを対象とする Target を返す
func CommentTarget(id string) Target { return Target{Kind: TargetComment, ID: id} }

func (t Target) String() string {
	return fmt.Sprintf("%s:%s", t.Kind, t.ID)
}

// Action はクライアントが要求したリアクション
type Action string

const (
	ActionLike    Action = "like"
	ActionDislike Action = "dislike"
)

// Outcome は実際に行われた操作
type Outcome string

const (
	OutcomeLiked      Outcome = "liked"
	OutcomeUnliked    Outcome = "unliked"
	OutcomeDisliked   Outcome = "disliked"
	OutcomeUndisliked Outcome = "undisliked"
)

// ReactionState はセッション・対象ごとのリアクション状態
// HasLiked と HasDisliked が同時に true になることはない
type ReactionState struct {
	HasLiked    bool
	HasDisliked bool
}

// Delta はカウンタの増減量
type Delta struct {
	Likes    int
	Dislikes int
}

// Inverse は打ち消し用の増減量を返す
func (d Delta) Inverse() Delta {
	return Delta{Likes: -d.Likes, Dislikes: -d.Dislikes}
}

// IsZero は増減がないかを返す
func (d Delta) IsZero() bool {
	return d.Likes == 0 && d.Dislikes == 0
}

// Toggle はリアクションの状態遷移を計算する
//
//	like:    liked なら取り消し。そうでなければ dislike を取り消してから like
//	dislike: like と対称
//
// 返り値の Delta をカウンタに、next をセッションに同じ論理ステップで反映すること
func Toggle(state ReactionState, action Action) (next ReactionState, delta Delta, outcome Outcome, err error) {
	switch action {
	case ActionLike:
		if state.HasLiked {
			return ReactionState{}, Delta{Likes: -1}, OutcomeUnliked, nil
		}
		if state.HasDisliked {
			delta.Dislikes = -1
		}
		delta.Likes = 1
		return ReactionState{HasLiked: true}, delta, OutcomeLiked, nil
	case ActionDislike:
		if state.HasDisliked {
			return ReactionState{}, Delta{Dislikes: -1}, OutcomeUndisliked, nil
		}
		if state.HasLiked {
			delta.Likes = -1
		}
		delta.Dislikes = 1
		return ReactionState{HasDisliked: true}, delta, OutcomeDisliked, nil
	default:
		return state, Delta{}, "", ErrUnknownAction
	}
}

// Counts は対象の現在のカウンタ値
type Counts struct {
	Views    int
	Likes    int
	Dislikes int
}

// ReactionResult はリアクション操作の結果
// クライアントが楽観的UIを補正できるよう、操作内容と最新カウンタを返す
type ReactionResult struct {
	Target  Target
	Outcome Outcome
	State   ReactionState
	Counts  Counts
}

// ViewResult は閲覧カウントの結果
type ViewResult struct {
	EventID string
	Counted bool
	Views   int
}
