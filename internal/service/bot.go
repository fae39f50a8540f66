package service

import (
	"context"
	"sync"
	"time"

	"github.com/treansai/traidano/internal/models"
	"github.com/treansai/traidano/internal/strategy"
	"go.uber.org/zap"
)

// marketClosedBackoff is how long an equity bot sleeps when the market is
// closed before re-checking eligibility.
const marketClosedBackoff = time.Hour

// Bot binds one immutable configuration to one cancellable periodic task.
// Lifecycle: created (constructed) -> running (Start) -> stopped (Stop).
// Ticks within a bot are strictly sequential; cancellation is abrupt and
// in-flight calls are abandoned, their results discarded.
type Bot struct {
	config  models.BotConfig
	gateway strategy.Gateway
	logger  *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewBot(config models.BotConfig, gateway strategy.Gateway, logger *zap.Logger) *Bot {
	return &Bot{
		config:  config,
		gateway: gateway,
		logger: logger.With(
			zap.String("bot_id", config.ID),
			zap.String("bot_name", config.Name),
			zap.String("strategy", config.Strategy.String())),
	}
}

// Config returns the bot's immutable configuration.
func (b *Bot) Config() models.BotConfig {
	return b.config
}

// IsRunning reports whether a live task handle exists.
func (b *Bot) IsRunning() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cancel != nil
}

// Start spawns the periodic strategy task. Starting a running bot is a
// no-op; the manager handles replacement by stopping first.
func (b *Bot) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		return nil
	}

	strat, err := strategy.New(b.config, b.logger)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.done = make(chan struct{})

	go b.run(runCtx, strat)
	b.logger.Info("bot started")
	return nil
}

// Stop cancels the task abruptly. No new brokerage call starts after Stop
// returns; a call already in flight may complete and is discarded.
// Stopping a non-running bot is a no-op.
func (b *Bot) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel == nil {
		return
	}
	b.cancel()
	b.cancel = nil
	b.logger.Info("bot stopped")
}

func (b *Bot) run(ctx context.Context, strat strategy.Strategy) {
	defer close(b.done)

	for {
		if ctx.Err() != nil {
			return
		}
		wait := b.tick(ctx, strat)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// tick runs one decision cycle and returns how long to sleep before the
// next one.
func (b *Bot) tick(ctx context.Context, strat strategy.Strategy) time.Duration {
	if b.config.Market == models.MarketEquity {
		open, err := b.gateway.IsMarketOpen(ctx)
		if err != nil {
			b.logger.Error("failed to check market clock", zap.Error(err))
			return strat.Interval()
		}
		if !open {
			b.logger.Info("equity market is closed, backing off",
				zap.Duration("backoff", marketClosedBackoff))
			return marketClosedBackoff
		}
	}

	intents, err := strat.Decide(ctx, b.gateway)
	if err != nil {
		b.logger.Error("decision cycle failed", zap.Error(err))
		return strat.Interval()
	}

	for _, intent := range intents {
		if ctx.Err() != nil {
			return strat.Interval()
		}
		order, err := b.gateway.SubmitOrder(ctx, intent)
		if err != nil {
			// One rejected symbol must not abort the rest.
			b.logger.Error("failed to place order",
				zap.String("symbol", intent.Symbol),
				zap.String("side", intent.Side.String()),
				zap.Float64("qty", intent.Qty),
				zap.Error(err))
			continue
		}
		b.logger.Info("order placed",
			zap.String("symbol", intent.Symbol),
			zap.String("side", intent.Side.String()),
			zap.Float64("qty", intent.Qty),
			zap.Float64("limit_price", intent.LimitPrice),
			zap.String("order_id", order.ID),
			zap.String("status", order.Status))
	}
	return strat.Interval()
}
