package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/treansai/traidano/internal/models"
	"github.com/treansai/traidano/internal/strategy"
	"github.com/treansai/traidano/pkg/alpaca"
	"go.uber.org/zap"
)

// fakeGateway counts brokerage calls so tests can assert what a tick did.
type fakeGateway struct {
	mu        sync.Mutex
	open      bool
	barsCalls int
	submitted []alpaca.OrderRequest
}

func (g *fakeGateway) GetBars(ctx context.Context, market models.MarketKind, symbols []string, timeframe string, limit, lookbackDays int) (map[string][]alpaca.Bar, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.barsCalls++
	return map[string][]alpaca.Bar{}, nil
}

func (g *fakeGateway) GetAccount(ctx context.Context) (alpaca.Account, error) {
	return alpaca.Account{Equity: 10000, BuyingPower: 20000}, nil
}

func (g *fakeGateway) GetPositions(ctx context.Context) ([]alpaca.Position, error) {
	return nil, nil
}

func (g *fakeGateway) IsMarketOpen(ctx context.Context) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.open, nil
}

func (g *fakeGateway) SubmitOrder(ctx context.Context, req alpaca.OrderRequest) (alpaca.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.submitted = append(g.submitted, req)
	return alpaca.Order{ID: "order-1"}, nil
}

func (g *fakeGateway) bars() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.barsCalls
}

func testBotConfig(id string) models.BotConfig {
	return models.BotConfig{
		ID:               id,
		Name:             "test-bot",
		Market:           models.MarketEquity,
		Strategy:         models.StrategyMeanReversion,
		Symbols:          []string{"AAPL"},
		Lookback:         3,
		RiskPerTrade:     0.01,
		MaxPositions:     1,
		Timeframes:       []string{"5Min"},
		VolatilityWindow: 3,
	}
}

func TestBotTickClosedMarketBacksOff(t *testing.T) {
	gw := &fakeGateway{open: false}
	bot := NewBot(testBotConfig("01TEST"), gw, zap.NewNop())

	strat, err := strategy.New(bot.config, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	wait := bot.tick(context.Background(), strat)
	if wait != marketClosedBackoff {
		t.Fatalf("closed market should back off %v, got %v", marketClosedBackoff, wait)
	}
	if gw.bars() != 0 {
		t.Fatalf("closed market must not run the strategy, got %d bars calls", gw.bars())
	}
}

func TestBotTickOpenMarketRunsStrategy(t *testing.T) {
	gw := &fakeGateway{open: true}
	bot := NewBot(testBotConfig("01TEST"), gw, zap.NewNop())

	strat, err := strategy.New(bot.config, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	wait := bot.tick(context.Background(), strat)
	if wait != strat.Interval() {
		t.Fatalf("open market should tick at the strategy cadence, got %v", wait)
	}
	if gw.bars() == 0 {
		t.Fatal("open market should run the strategy")
	}
}

func TestBotStartStopLifecycle(t *testing.T) {
	gw := &fakeGateway{open: false}
	bot := NewBot(testBotConfig("01TEST"), gw, zap.NewNop())

	if bot.IsRunning() {
		t.Fatal("new bot must not be running")
	}
	if err := bot.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !bot.IsRunning() {
		t.Fatal("started bot must report running")
	}
	// Starting again is a no-op.
	if err := bot.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	bot.Stop()
	if bot.IsRunning() {
		t.Fatal("stopped bot must not report running")
	}
	// Stopping again is a no-op.
	bot.Stop()

	select {
	case <-bot.done:
	case <-time.After(2 * time.Second):
		t.Fatal("bot task did not exit after Stop")
	}
}

func TestBotStartUnknownStrategy(t *testing.T) {
	config := testBotConfig("01TEST")
	config.Strategy = "momentum"
	bot := NewBot(config, &fakeGateway{}, zap.NewNop())

	if err := bot.Start(context.Background()); err == nil {
		t.Fatal("unknown strategy kind must fail Start")
	}
	if bot.IsRunning() {
		t.Fatal("failed Start must not leave the bot running")
	}
}
