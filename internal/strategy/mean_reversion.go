package strategy

import (
	"context"
	"time"

	"github.com/treansai/traidano/internal/models"
	"github.com/treansai/traidano/pkg/alpaca"
	"github.com/treansai/traidano/pkg/ta"
	"go.uber.org/zap"
)

// meanReversion votes across every configured timeframe and only acts on
// unanimous agreement. Price above the lookback mean biases a sell, price
// below biases a buy.
type meanReversion struct {
	config models.BotConfig
	logger *zap.Logger
}

func newMeanReversion(config models.BotConfig, logger *zap.Logger) *meanReversion {
	return &meanReversion{config: config, logger: logger}
}

func (s *meanReversion) Name() string {
	return string(models.StrategyMeanReversion)
}

func (s *meanReversion) Interval() time.Duration {
	return time.Minute
}

func (s *meanReversion) Decide(ctx context.Context, gw Gateway) ([]alpaca.OrderRequest, error) {
	need := s.config.Lookback
	if s.config.VolatilityWindow > need {
		need = s.config.VolatilityWindow
	}

	signals := make(map[string]int)
	for _, timeframe := range s.config.Timeframes {
		allBars, err := gw.GetBars(ctx, s.config.Market, s.config.Symbols, timeframe, need, lookbackDays(timeframe, need))
		if err != nil {
			s.logger.Error("failed to get bars",
				zap.String("timeframe", timeframe),
				zap.Error(err))
			continue
		}

		for symbol, bars := range allBars {
			if len(bars) < need {
				s.logger.Warn("not enough data",
					zap.String("symbol", symbol),
					zap.String("timeframe", timeframe),
					zap.Int("bars", len(bars)),
					zap.Int("required", need))
				continue
			}

			prices := closes(bars)
			mean := ta.Mean(prices, s.config.Lookback)
			lastPrice := ta.Last(prices, 0)

			// Above the mean we expect reversion down, hence a
			// sell bias; below, a buy bias.
			signal := 1
			if lastPrice > mean {
				signal = -1
			}
			signals[symbol] += signal
		}
	}

	if len(signals) == 0 {
		return nil, nil
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
	for symbol, signal := range signals {
		// Strict consensus: every timeframe must agree.
		if abs(signal) != len(s.config.Timeframes) {
			continue
		}

		side := alpaca.SideSell
		if signal > 0 {
			side = alpaca.SideBuy
		}
		if !entryAllowed(side, current[symbol]) {
			continue
		}

		lastPrice, ok := s.currentPrice(ctx, gw, symbol)
		if !ok {
			continue
		}

		qty := PositionSize(account, lastPrice, s.config.RiskPerTrade)
		if qty <= 0 {
			continue
		}
		intents = append(intents, limitOrder(symbol, side, qty, lastPrice))
	}
	return intents, nil
}

// currentPrice fetches the close of the single most recent one-minute bar.
func (s *meanReversion) currentPrice(ctx context.Context, gw Gateway, symbol string) (float64, bool) {
	bars, err := gw.GetBars(ctx, s.config.Market, []string{symbol}, "1Min", 1, 1)
	if err != nil {
		s.logger.Error("failed to get current price",
			zap.String("symbol", symbol),
			zap.Error(err))
		return 0, false
	}
	series := bars[symbol]
	if len(series) == 0 {
		s.logger.Warn("no current price bar", zap.String("symbol", symbol))
		return 0, false
	}
	return series[len(series)-1].Close, true
}
