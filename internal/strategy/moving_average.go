package strategy

import (
	"context"
	"time"

	"github.com/markcheno/go-talib"
	"github.com/treansai/traidano/internal/models"
	"github.com/treansai/traidano/pkg/alpaca"
	"github.com/treansai/traidano/pkg/ta"
	"go.uber.org/zap"
)

const (
	emaShortPeriod = 10
	emaLongPeriod  = 30
	emaHistoryBars = 50
)

// movingAverage trades the crossover of a short and a long exponential
// moving average on the bot's first timeframe. Periods are fixed at bot
// start; each tick re-feeds the full fetched close series through both
// averages and compares the final values.
type movingAverage struct {
	config      models.BotConfig
	logger      *zap.Logger
	shortPeriod int
	longPeriod  int
}

func newMovingAverage(config models.BotConfig, logger *zap.Logger) *movingAverage {
	return &movingAverage{
		config:      config,
		logger:      logger,
		shortPeriod: emaShortPeriod,
		longPeriod:  emaLongPeriod,
	}
}

func (s *movingAverage) Name() string {
	return string(models.StrategyMovingAverage)
}

func (s *movingAverage) Interval() time.Duration {
	return time.Minute
}

func (s *movingAverage) Decide(ctx context.Context, gw Gateway) ([]alpaca.OrderRequest, error) {
	timeframe := s.config.Timeframes[0]
	allBars, err := gw.GetBars(ctx, s.config.Market, s.config.Symbols, timeframe, emaHistoryBars, lookbackDays(timeframe, emaHistoryBars))
	if err != nil {
		return nil, err
	}

	account, err := gw.GetAccount(ctx)
	if err != nil {
		return nil, err
	}
	positions, err := gw.GetPositions(ctx)
	if err != nil {
		return nil, err
	}
	current := positionMap(positions)

	var intents []alpaca.OrderRequest
	for symbol, bars := range allBars {
		if len(bars) < s.longPeriod {
			s.logger.Warn("not enough data",
				zap.String("symbol", symbol),
				zap.String("timeframe", timeframe),
				zap.Int("bars", len(bars)),
				zap.Int("required", s.longPeriod))
			continue
		}

		prices := closes(bars)
		shortEMA := ta.Last(talib.Ema(prices, s.shortPeriod), 0)
		longEMA := ta.Last(talib.Ema(prices, s.longPeriod), 0)

		var side alpaca.Side
		switch {
		case shortEMA > longEMA:
			side = alpaca.SideBuy
		case shortEMA < longEMA:
			side = alpaca.SideSell
		default:
			continue // tie, no action
		}
		if !entryAllowed(side, current[symbol]) {
			continue
		}

		lastPrice := ta.Last(prices, 0)
		qty := PositionSize(account, lastPrice, s.config.RiskPerTrade)
		if qty <= 0 {
			continue
		}
		intents = append(intents, limitOrder(symbol, side, qty, lastPrice))
	}
	return intents, nil
}
