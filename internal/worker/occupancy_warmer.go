package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-ticket-booking/internal/pkg/logger"
)

// AvailabilityRefresher は空席数キャッシュを更新するインターフェース
type AvailabilityRefresher interface {
	RefreshAvailability(ctx context.Context) (int, error)
}

// OccupancyWarmer は全イベントの空席数キャッシュを定期的に温めるワーカー
type OccupancyWarmer struct {
	refresher AvailabilityRefresher
	interval  time.Duration
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewOccupancyWarmer は新しいウォーマーを作成
func NewOccupancyWarmer(refresher AvailabilityRefresher, interval time.Duration) *OccupancyWarmer {
	return &OccupancyWarmer{
		refresher: refresher,
		interval:  interval,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start はウォーマーを開始
func (w *OccupancyWarmer) Start(ctx context.Context) {
	logger.Info("空席数キャッシュウォーマー開始", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("空席数キャッシュウォーマー停止（コンテキストキャンセル）")
			return
		case <-w.stopCh:
			logger.Info("空席数キャッシュウォーマー停止（シグナル受信）")
			return
		case <-ticker.C:
			w.warm(ctx)
		}
	}
}

// Stop はウォーマーを停止
func (w *OccupancyWarmer) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

// warm は空席数キャッシュを更新
func (w *OccupancyWarmer) warm(ctx context.Context) {
	count, err := w.refresher.RefreshAvailability(ctx)
	if err != nil {
		logger.Error("空席数キャッシュの更新失敗", zap.Error(err))
		return
	}
	if count > 0 {
		logger.Debug("空席数キャッシュを更新", zap.Int("events", count))
	}
}
