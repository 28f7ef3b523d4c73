package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/engagement"
	"github.com/urosevicvuk/raf-event-booker/internal/pkg/logger"
)

// ExpiredSessionSweeper は期限切れのエンゲージメントセッションを定期的に破棄するワーカー
// Redis ストアはキーの TTL で失効するため、メモリストア使用時のみ起動する
type ExpiredSessionSweeper struct {
	store    engagement.Evictor
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewExpiredSessionSweeper は新しいスイーパーを作成
func NewExpiredSessionSweeper(store engagement.Evictor, interval time.Duration) *ExpiredSessionSweeper {
	return &ExpiredSessionSweeper{
		store:    store,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start はスイーパーを開始。ctx のキャンセルか Stop で戻る
func (s *ExpiredSessionSweeper) Start(ctx context.Context) {
	logger.Info("期限切れセッションスイーパー開始", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer close(s.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("期限切れセッションスイーパー停止（コンテキストキャンセル）")
			return
		case <-s.stopCh:
			logger.Info("期限切れセッションスイーパー停止（シグナル受信）")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Stop はスイーパーを停止し、終了を待つ
func (s *ExpiredSessionSweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
}

func (s *ExpiredSessionSweeper) sweep(ctx context.Context) {
	log := logger.Get()

	count, err := s.store.EvictExpired(ctx, s.now())
	if err != nil {
		log.Error("期限切れセッションの破棄失敗", zap.Error(err))
		return
	}
	if count > 0 {
		log.Info("期限切れセッションを破棄", zap.Int("count", count))
	} else {
		log.Debug("期限切れセッションなし")
	}
}
