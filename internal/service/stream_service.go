package service

import (
	"context"
	"fmt"
	"time"

	"github.com/treansai/traidano/internal/telegram"
	"github.com/treansai/traidano/pkg/alpaca"
	"go.uber.org/zap"
)

const streamReconnectDelay = time.Minute

// StreamService listens on the brokerage trade-update stream and relays
// fills to the log and the notifier. It is supporting infrastructure; the
// decision loops never depend on it.
type StreamService struct {
	logger   *zap.Logger
	client   *alpaca.Client
	notifier *telegram.Notifier
	cancel   context.CancelFunc
}

func NewStreamService(client *alpaca.Client, notifier *telegram.Notifier, logger *zap.Logger) *StreamService {
	return &StreamService{
		logger:   logger,
		client:   client,
		notifier: notifier,
	}
}

// Start launches the stream listener when a stream URL is configured.
func (s *StreamService) Start(ctx context.Context) {
	if s.client.StreamURL() == "" {
		s.logger.Info("trade-update stream not configured, skipping")
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	go s.loop(ctx)
}

// Stop tears down the listener.
func (s *StreamService) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *StreamService) loop(ctx context.Context) {
	for {
		err := s.client.ListenTradeUpdates(ctx, s.handleUpdate)
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn("trade-update stream disconnected",
			zap.Error(err),
			zap.Duration("reconnect_in", streamReconnectDelay))

		timer := time.NewTimer(streamReconnectDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (s *StreamService) handleUpdate(update alpaca.TradeUpdate) {
	s.logger.Info("trade update",
		zap.String("event", update.Event),
		zap.String("symbol", update.Order.Symbol),
		zap.String("order_id", update.Order.ID),
		zap.String("qty", update.Qty),
		zap.String("price", update.Price))

	if update.Event == "fill" || update.Event == "partial_fill" {
		s.notifier.Notify(fmt.Sprintf("💰 %s *%s* %s @ %s (%s)",
			update.Order.Side, update.Order.Symbol, update.Qty, update.Price, update.Event))
	}
}
