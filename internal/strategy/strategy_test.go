package strategy

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/treansai/traidano/internal/models"
	"github.com/treansai/traidano/pkg/alpaca"
	"go.uber.org/zap"
)

// fakeGateway serves canned market data, keyed by timeframe then symbol.
type fakeGateway struct {
	bars      map[string]map[string][]alpaca.Bar
	account   alpaca.Account
	positions []alpaca.Position
	open      bool

	barsErr   error
	submitted []alpaca.OrderRequest
}

func (g *fakeGateway) GetBars(ctx context.Context, market models.MarketKind, symbols []string, timeframe string, limit, lookbackDays int) (map[string][]alpaca.Bar, error) {
	if g.barsErr != nil {
		return nil, g.barsErr
	}
	out := make(map[string][]alpaca.Bar)
	for _, symbol := range symbols {
		if series, ok := g.bars[timeframe][symbol]; ok {
			out[symbol] = series
		}
	}
	return out, nil
}

func (g *fakeGateway) GetAccount(ctx context.Context) (alpaca.Account, error) {
	return g.account, nil
}

func (g *fakeGateway) GetPositions(ctx context.Context) ([]alpaca.Position, error) {
	return g.positions, nil
}

func (g *fakeGateway) IsMarketOpen(ctx context.Context) (bool, error) {
	return g.open, nil
}

func (g *fakeGateway) SubmitOrder(ctx context.Context, req alpaca.OrderRequest) (alpaca.Order, error) {
	g.submitted = append(g.submitted, req)
	return alpaca.Order{ID: "order-1", Symbol: req.Symbol, Side: req.Side}, nil
}

func barsFrom(closes []float64, vols []float64) []alpaca.Bar {
	out := make([]alpaca.Bar, len(closes))
	for i, c := range closes {
		out[i] = alpaca.Bar{Timestamp: time.Unix(int64(i)*60, 0), Close: c, Volume: 1}
		if vols != nil {
			out[i].Volume = vols[i]
		}
	}
	return out
}

func approx(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNewUnknownStrategy(t *testing.T) {
	_, err := New(models.BotConfig{Strategy: "momentum"}, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for unknown strategy kind")
	}
}

func TestMeanReversionUnanimousSell(t *testing.T) {
	config := models.BotConfig{
		Name:             "mr",
		Market:           models.MarketEquity,
		Strategy:         models.StrategyMeanReversion,
		Symbols:          []string{"AAPL"},
		Lookback:         3,
		RiskPerTrade:     0.01,
		Timeframes:       []string{"5Min", "15Min"},
		VolatilityWindow: 3,
	}
	// Last price above the mean on both timeframes.
	above := barsFrom([]float64{100, 100, 130}, nil)
	gw := &fakeGateway{
		bars: map[string]map[string][]alpaca.Bar{
			"5Min":  {"AAPL": above},
			"15Min": {"AAPL": above},
			"1Min":  {"AAPL": barsFrom([]float64{110}, nil)},
		},
		account: alpaca.Account{Equity: 100000, BuyingPower: 200000},
	}

	strat := newMeanReversion(config, zap.NewNop())
	intents, err := strat.Decide(context.Background(), gw)
	if err != nil {
		t.Fatal(err)
	}
	if len(intents) != 1 {
		t.Fatalf("expected 1 intent, got %d", len(intents))
	}
	got := intents[0]
	if got.Side != alpaca.SideSell {
		t.Fatalf("expected sell, got %s", got.Side)
	}
	if got.Symbol != "AAPL" || got.Type != alpaca.OrderTypeLimit || got.TimeInForce != alpaca.TimeInForceDay {
		t.Fatalf("unexpected intent shape: %+v", got)
	}
	// floor(100000 * 0.01 / 110) at the refetched one-minute price.
	approx(t, got.Qty, 9)
	approx(t, got.LimitPrice, 110*0.999)
}

func TestMeanReversionSplitVoteHolds(t *testing.T) {
	config := models.BotConfig{
		Symbols:          []string{"AAPL"},
		Lookback:         3,
		RiskPerTrade:     0.01,
		Timeframes:       []string{"5Min", "15Min"},
		VolatilityWindow: 3,
	}
	gw := &fakeGateway{
		bars: map[string]map[string][]alpaca.Bar{
			"5Min":  {"AAPL": barsFrom([]float64{100, 100, 130}, nil)}, // sell vote
			"15Min": {"AAPL": barsFrom([]float64{120, 120, 90}, nil)},  // buy vote
			"1Min":  {"AAPL": barsFrom([]float64{110}, nil)},
		},
		account: alpaca.Account{Equity: 100000, BuyingPower: 200000},
	}

	strat := newMeanReversion(config, zap.NewNop())
	intents, err := strat.Decide(context.Background(), gw)
	if err != nil {
		t.Fatal(err)
	}
	if len(intents) != 0 {
		t.Fatalf("split vote must produce no intents, got %d", len(intents))
	}
}

func TestMeanReversionBuyBlockedWhenLong(t *testing.T) {
	config := models.BotConfig{
		Symbols:          []string{"AAPL"},
		Lookback:         3,
		RiskPerTrade:     0.01,
		Timeframes:       []string{"5Min"},
		VolatilityWindow: 3,
	}
	below := barsFrom([]float64{120, 120, 90}, nil)
	gw := &fakeGateway{
		bars: map[string]map[string][]alpaca.Bar{
			"5Min": {"AAPL": below},
			"1Min": {"AAPL": barsFrom([]float64{90}, nil)},
		},
		account:   alpaca.Account{Equity: 100000, BuyingPower: 200000},
		positions: []alpaca.Position{{Symbol: "AAPL", Qty: 5}},
	}

	strat := newMeanReversion(config, zap.NewNop())
	intents, err := strat.Decide(context.Background(), gw)
	if err != nil {
		t.Fatal(err)
	}
	if len(intents) != 0 {
		t.Fatalf("buy into an existing long must be suppressed, got %d intents", len(intents))
	}
}

func TestMeanReversionShortSeriesSkipped(t *testing.T) {
	config := models.BotConfig{
		Symbols:          []string{"AAPL"},
		Lookback:         10,
		RiskPerTrade:     0.01,
		Timeframes:       []string{"5Min"},
		VolatilityWindow: 10,
	}
	gw := &fakeGateway{
		bars: map[string]map[string][]alpaca.Bar{
			"5Min": {"AAPL": barsFrom([]float64{100, 130}, nil)},
		},
		account: alpaca.Account{Equity: 100000, BuyingPower: 200000},
	}

	strat := newMeanReversion(config, zap.NewNop())
	intents, err := strat.Decide(context.Background(), gw)
	if err != nil {
		t.Fatal(err)
	}
	if len(intents) != 0 {
		t.Fatalf("short series must be skipped, got %d intents", len(intents))
	}
}

func TestEntryAllowed(t *testing.T) {
	if !entryAllowed(alpaca.SideBuy, 0) {
		t.Error("buy should be allowed when flat")
	}
	if !entryAllowed(alpaca.SideBuy, -3) {
		t.Error("buy should be allowed when short")
	}
	if entryAllowed(alpaca.SideBuy, 2) {
		t.Error("buy should be blocked when long")
	}
	if !entryAllowed(alpaca.SideSell, 0) {
		t.Error("sell should be allowed when flat")
	}
	if !entryAllowed(alpaca.SideSell, 4) {
		t.Error("sell should be allowed when long")
	}
	if entryAllowed(alpaca.SideSell, -1) {
		t.Error("sell should be blocked when short")
	}
}

func TestLookbackDays(t *testing.T) {
	if got := lookbackDays("1Day", 30); got != 60 {
		t.Errorf("day frame: got %d, want 60", got)
	}
	if got := lookbackDays("1Hour", 60); got != 12 {
		t.Errorf("hour frame: got %d, want 12", got)
	}
	if got := lookbackDays("1Min", 100); got != 2 {
		t.Errorf("minute frame: got %d, want 2", got)
	}
}
