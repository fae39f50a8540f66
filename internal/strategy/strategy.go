// Package strategy contains the decision algorithms that turn bar windows
// into order intents. Each bot owns one Strategy instance; strategies reach
// the brokerage only through the Gateway, which is rate limited behind the
// scenes.
package strategy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/treansai/traidano/internal/models"
	"github.com/treansai/traidano/pkg/alpaca"
	"go.uber.org/zap"
)

// Gateway is the brokerage surface consumed by strategies and the bot
// loop. Account and position snapshots are fetched fresh on every decision
// cycle and never cached across ticks.
type Gateway interface {
	GetBars(ctx context.Context, market models.MarketKind, symbols []string, timeframe string, limit, lookbackDays int) (map[string][]alpaca.Bar, error)
	GetAccount(ctx context.Context) (alpaca.Account, error)
	GetPositions(ctx context.Context) ([]alpaca.Position, error)
	IsMarketOpen(ctx context.Context) (bool, error)
	SubmitOrder(ctx context.Context, req alpaca.OrderRequest) (alpaca.Order, error)
}

// Strategy computes zero or more order intents per tick.
type Strategy interface {
	Name() string
	// Interval is the fixed cadence between decision cycles.
	Interval() time.Duration
	Decide(ctx context.Context, gw Gateway) ([]alpaca.OrderRequest, error)
}

// New builds the strategy instance for a bot configuration. The switch is
// exhaustive over models.StrategyKind.
func New(config models.BotConfig, logger *zap.Logger) (Strategy, error) {
	switch config.Strategy {
	case models.StrategyMeanReversion:
		return newMeanReversion(config, logger), nil
	case models.StrategyMovingAverage:
		return newMovingAverage(config, logger), nil
	case models.StrategySmartMoney:
		return newSmartMoney(config, logger), nil
	default:
		return nil, fmt.Errorf("unknown strategy kind %q", config.Strategy)
	}
}

// closes extracts the close-price series from a bar window, oldest first.
func closes(bars []alpaca.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// volumes extracts the volume series from a bar window, oldest first.
func volumes(bars []alpaca.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}

// positionMap indexes signed position quantities by symbol.
func positionMap(positions []alpaca.Position) map[string]float64 {
	out := make(map[string]float64, len(positions))
	for _, p := range positions {
		out[p.Symbol] = p.Qty
	}
	return out
}

// entryAllowed suppresses pyramiding: a buy only enters flat or short
// books, a sell only flat or long ones.
func entryAllowed(side alpaca.Side, currentPosition float64) bool {
	if side == alpaca.SideBuy {
		return currentPosition <= 0
	}
	return currentPosition >= 0
}

// lookbackDays sizes the start window of a bars request so the upstream
// has room to return `limit` bars for the given timeframe. Day-class
// frames need calendar headroom for weekends and holidays.
func lookbackDays(timeframe string, limit int) int {
	switch {
	case strings.Contains(timeframe, "Day"):
		return limit * 2
	case strings.Contains(timeframe, "Hour"):
		return limit/6 + 2
	default:
		return limit/390 + 2
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
