package strategy

import (
	"context"
	"time"

	"github.com/treansai/traidano/internal/models"
	"github.com/treansai/traidano/pkg/alpaca"
	"github.com/treansai/traidano/pkg/ta"
	"go.uber.org/zap"
)

const (
	srWindow         = 20
	anomalyThreshold = 2.0
	smartHistoryBars = 100
)

// smartMoney looks for accumulation at support and distribution at
// resistance, confirmed by a volume spike and the direction of
// volume-weighted order flow.
type smartMoney struct {
	config  models.BotConfig
	logger  *zap.Logger
	minBars int
}

func newSmartMoney(config models.BotConfig, logger *zap.Logger) *smartMoney {
	return &smartMoney{config: config, logger: logger, minBars: smartHistoryBars}
}

func (s *smartMoney) Name() string {
	return string(models.StrategySmartMoney)
}

func (s *smartMoney) Interval() time.Duration {
	return 5 * time.Minute
}

func (s *smartMoney) Decide(ctx context.Context, gw Gateway) ([]alpaca.OrderRequest, error) {
	var intents []alpaca.OrderRequest
	for _, symbol := range s.config.Symbols {
		timeframe := s.config.Timeframes[0]
		allBars, err := gw.GetBars(ctx, s.config.Market, []string{symbol}, timeframe, smartHistoryBars, lookbackDays(timeframe, smartHistoryBars))
		if err != nil {
			s.logger.Error("failed to get historical data",
				zap.String("symbol", symbol),
				zap.Error(err))
			continue
		}

		bars := allBars[symbol]
		if len(bars) < s.minBars {
			s.logger.Warn("not enough data",
				zap.String("symbol", symbol),
				zap.Int("bars", len(bars)),
				zap.Int("required", s.minBars))
			continue
		}

		prices := closes(bars)
		vols := volumes(bars)

		support, resistance := ta.WindowExtrema(prices, srWindow)
		anomaly := volumeAnomaly(vols, anomalyThreshold)
		bullish := bullishOrderFlow(bars)
		lastPrice := ta.Last(prices, 0)

		account, err := gw.GetAccount(ctx)
		if err != nil {
			s.logger.Error("failed to get account", zap.Error(err))
			continue
		}
		positions, err := gw.GetPositions(ctx)
		if err != nil {
			s.logger.Error("failed to get positions", zap.Error(err))
			continue
		}
		currentPosition := positionMap(positions)[symbol]

		var side alpaca.Side
		switch {
		case lastPrice <= support && anomaly && bullish && currentPosition <= 0:
			// Accumulation at support.
			side = alpaca.SideBuy
		case lastPrice >= resistance && anomaly && !bullish && currentPosition >= 0:
			// Distribution at resistance.
			side = alpaca.SideSell
		default:
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

// volumeAnomaly reports whether the most recent volume exceeds the series
// average by the given factor.
func volumeAnomaly(vols []float64, threshold float64) bool {
	if len(vols) == 0 {
		return false
	}
	avg := ta.Mean(vols, len(vols))
	return ta.Last(vols, 0) > avg*threshold
}

// bullishOrderFlow compares volume-weighted price deltas against the
// unweighted deltas: when volume concentrates on up moves the weighted sum
// pulls ahead.
func bullishOrderFlow(bars []alpaca.Bar) bool {
	var plain, weighted float64
	for i := 1; i < len(bars); i++ {
		delta := bars[i].Close - bars[i-1].Close
		plain += delta
		weighted += delta * bars[i].Volume
	}
	return weighted > plain
}
