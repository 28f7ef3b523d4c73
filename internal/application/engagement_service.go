package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/engagement"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/lock"
	"github.com/urosevicvuk/raf-event-booker/internal/pkg/logger"
	"github.com/urosevicvuk/raf-event-booker/internal/pkg/metrics"
)

// EngagementService はセッション単位のリアクション切り替えと閲覧カウントを行う
// フラグ（セッション）とカウンタ（DB）は片方だけが反映された状態を残さない
type EngagementService struct {
	sessions engagement.SessionStore
	counters engagement.Counters
	locker   lock.Locker
	metrics  *metrics.Metrics
}

func NewEngagementService(sessions engagement.SessionStore, counters engagement.Counters, locker lock.Locker, m *metrics.Metrics) *EngagementService {
	return &EngagementService{sessions: sessions, counters: counters, locker: locker, metrics: m}
}

func (s *EngagementService) ReactToEvent(ctx context.Context, sessionID, eventID string, action engagement.Action) (*engagement.ReactionResult, error) {
	return s.react(ctx, sessionID, engagement.EventTarget(eventID), action)
}

func (s *EngagementService) ReactToComment(ctx context.Context, sessionID, commentID string, action engagement.Action) (*engagement.ReactionResult, error) {
	return s.react(ctx, sessionID, engagement.CommentTarget(commentID), action)
}

func (s *EngagementService) react(ctx context.Context, sessionID string, target engagement.Target, action engagement.Action) (*engagement.ReactionResult, error) {
	if sessionID == "" {
		return nil, engagement.ErrSessionRequired
	}
	if action != engagement.ActionLike && action != engagement.ActionDislike {
		return nil, engagement.ErrUnknownAction
	}

	// 同一セッション・同一対象の連打を直列化する
	l, err := s.locker.Acquire(ctx, "reaction:"+sessionID+":"+target.String())
	if err != nil {
		return nil, fmt.Errorf("リアクションのロック取得に失敗: %w", err)
	}
	defer s.release(ctx, l)

	// 対象の存在確認（存在しなければカウンタもフラグも変更しない）
	if _, err := s.counters.Get(ctx, target); err != nil {
		return nil, err
	}

	state, err := s.sessions.Reactions(ctx, sessionID, target)
	if err != nil {
		return nil, err
	}
	next, delta, outcome, err := engagement.Toggle(state, action)
	if err != nil {
		return nil, err
	}

	counts, err := s.counters.ApplyReaction(ctx, target, delta)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.SaveReactions(ctx, sessionID, target, next); err != nil {
		// フラグを保存できなければカウンタを元に戻す。切断で ctx が終わっていても戻す
		if _, cerr := s.counters.ApplyReaction(context.WithoutCancel(ctx), target, delta.Inverse()); cerr != nil {
			logger.Error("リアクションの補償に失敗しました",
				zap.String("target", target.String()),
				zap.Int("likes", delta.Likes),
				zap.Int("dislikes", delta.Dislikes),
				zap.Error(cerr),
			)
		}
		return nil, fmt.Errorf("リアクション状態の保存に失敗: %w", err)
	}

	s.metrics.RecordReaction(string(target.Kind), string(outcome))
	return &engagement.ReactionResult{
		Target:  target,
		Outcome: outcome,
		State:   next,
		Counts:  counts,
	}, nil
}

// TrackView はセッション内で初回の閲覧のみイベントの閲覧数を1増やす
func (s *EngagementService) TrackView(ctx context.Context, sessionID, eventID string) (*engagement.ViewResult, error) {
	if sessionID == "" {
		return nil, engagement.ErrSessionRequired
	}
	target := engagement.EventTarget(eventID)

	current, err := s.counters.Get(ctx, target)
	if err != nil {
		return nil, err
	}

	first, err := s.sessions.MarkViewed(ctx, sessionID, eventID)
	if err != nil {
		return nil, err
	}
	if !first {
		s.metrics.RecordView(false)
		return &engagement.ViewResult{EventID: eventID, Counted: false, Views: current.Views}, nil
	}

	views, err := s.counters.IncrementViews(ctx, eventID)
	if err != nil {
		// カウンタが増えていないのでフラグを戻す
		if uerr := s.sessions.UnmarkViewed(context.WithoutCancel(ctx), sessionID, eventID); uerr != nil {
			logger.Error("閲覧フラグの取り消しに失敗しました", zap.String("event_id", eventID), zap.Error(uerr))
		}
		return nil, err
	}

	s.metrics.RecordView(true)
	return &engagement.ViewResult{EventID: eventID, Counted: true, Views: views}, nil
}

// Counts は対象の現在のカウンタ値を返す
func (s *EngagementService) Counts(ctx context.Context, target engagement.Target) (engagement.Counts, error) {
	return s.counters.Get(ctx, target)
}

func (s *EngagementService) release(ctx context.Context, l lock.Lock) {
	if err := l.Release(context.WithoutCancel(ctx)); err != nil {
		logger.Warn("ロック解放に失敗しました", zap.Error(err))
	}
}
