package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/event"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/lock"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/rsvp"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/transaction"
	"github.com/urosevicvuk/raf-event-booker/internal/pkg/logger"
	"github.com/urosevicvuk/raf-event-booker/internal/pkg/metrics"
)

// RSVPService は定員付きの参加登録を扱う
//
// 同一イベントへの登録は次の3段で直列化する:
//   - イベント単位の分散ロック（locker が nil の場合は省略、混雑して取れない場合も省略）
//   - トランザクション内でのイベント行の SELECT ... FOR UPDATE
//   - (event_id, user_identifier) の一意制約
//
// 重複・定員の判定はロック取得後のトランザクション内で行う
type RSVPService struct {
	txManager transaction.Manager
	rsvpRepo  rsvp.Repository
	eventRepo event.Repository
	locker    lock.Locker
	cache     rsvp.CountCache
	metrics   *metrics.Metrics
}

func NewRSVPService(tm transaction.Manager, rr rsvp.Repository, er event.Repository, locker lock.Locker, cache rsvp.CountCache, m *metrics.Metrics) *RSVPService {
	return &RSVPService{txManager: tm, rsvpRepo: rr, eventRepo: er, locker: locker, cache: cache, metrics: m}
}

// Register は参加登録を行う
// 失敗: event.ErrEventNotFound / rsvp.ErrAlreadyRegistered / rsvp.ErrCapacityExceeded
func (s *RSVPService) Register(ctx context.Context, eventID, userIdentifier string) (*rsvp.RSVP, error) {
	r := rsvp.NewRSVP(eventID, userIdentifier)
	if err := r.Validate(); err != nil {
		return nil, err
	}

	if s.locker != nil {
		l, err := s.locker.Acquire(ctx, "rsvp:event:"+eventID)
		switch {
		case errors.Is(err, lock.ErrNotAcquired):
			// 定員判定は行ロックで直列化されるので、ロック無しで続行する
			s.metrics.RecordRSVP("lock_contended")
			logger.Warn("参加登録ロックが混雑しているため行ロックのみで続行します", zap.String("event_id", eventID))
		case err != nil:
			s.metrics.RecordRSVP("lock_failed")
			return nil, fmt.Errorf("参加登録のロック取得に失敗: %w", err)
		default:
			defer func() {
				if err := l.Release(context.WithoutCancel(ctx)); err != nil {
					logger.Warn("ロック解放に失敗しました", zap.String("event_id", eventID), zap.Error(err))
				}
			}()
		}
	}

	err := transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		capacity, err := s.rsvpRepo.LockEvent(ctx, tx, r.EventID)
		if err != nil {
			return err
		}
		exists, err := s.rsvpRepo.ExistsTx(ctx, tx, r.EventID, r.UserIdentifier)
		if err != nil {
			return err
		}
		if exists {
			return rsvp.ErrAlreadyRegistered
		}
		if capacity != nil && *capacity > 0 {
			count, err := s.rsvpRepo.CountTx(ctx, tx, r.EventID)
			if err != nil {
				return err
			}
			if count >= *capacity {
				return rsvp.ErrCapacityExceeded
			}
		}
		return s.rsvpRepo.Insert(ctx, tx, r)
	})
	if err != nil {
		s.metrics.RecordRSVP(rsvpStatus(err))
		return nil, err
	}

	s.invalidate(ctx, r.EventID)
	s.metrics.RecordRSVP("success")
	return r, nil
}

// Deregister は参加登録を取り消す。登録が無くてもエラーにしない
func (s *RSVPService) Deregister(ctx context.Context, eventID, userIdentifier string) error {
	if err := s.rsvpRepo.Delete(ctx, eventID, userIdentifier); err != nil {
		return err
	}
	s.invalidate(ctx, eventID)
	return nil
}

// Status はイベントの登録状況を返す。登録数はキャッシュがあればそれを使う
func (s *RSVPService) Status(ctx context.Context, eventID string) (*rsvp.Status, error) {
	e, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	count, err := s.count(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &rsvp.Status{EventID: e.ID, CurrentCount: count, MaxCapacity: e.MaxCapacity}, nil
}

// Count はイベントの登録数を返す
func (s *RSVPService) Count(ctx context.Context, eventID string) (int, error) {
	exists, err := s.eventRepo.Exists(ctx, eventID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, event.ErrEventNotFound
	}
	return s.count(ctx, eventID)
}

func (s *RSVPService) IsRegistered(ctx context.Context, eventID, userIdentifier string) (bool, error) {
	return s.rsvpRepo.Exists(ctx, eventID, userIdentifier)
}

// ListRoster はロスターを登録順に返す
func (s *RSVPService) ListRoster(ctx context.Context, eventID string, limit, offset int) ([]*rsvp.RSVP, error) {
	exists, err := s.eventRepo.Exists(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, event.ErrEventNotFound
	}
	limit, offset = normalizePage(limit, offset)
	return s.rsvpRepo.ListByEvent(ctx, eventID, limit, offset)
}

func (s *RSVPService) count(ctx context.Context, eventID string) (int, error) {
	if s.cache != nil {
		if n, ok, err := s.cache.Get(ctx, eventID); err == nil && ok {
			return n, nil
		} else if err != nil {
			logger.Warn("登録数キャッシュの取得に失敗しました", zap.String("event_id", eventID), zap.Error(err))
		}
	}

	n, err := s.rsvpRepo.Count(ctx, eventID)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, eventID, n); err != nil {
			logger.Warn("登録数キャッシュの保存に失敗しました", zap.String("event_id", eventID), zap.Error(err))
		}
	}
	return n, nil
}

func (s *RSVPService) invalidate(ctx context.Context, eventID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, eventID); err != nil {
		logger.Warn("登録数キャッシュの無効化に失敗しました", zap.String("event_id", eventID), zap.Error(err))
	}
}

func rsvpStatus(err error) string {
	switch {
	case errors.Is(err, rsvp.ErrAlreadyRegistered):
		return "already_registered"
	case errors.Is(err, rsvp.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, event.ErrEventNotFound):
		return "not_found"
	default:
		return "error"
	}
}
