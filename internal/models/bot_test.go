package models

import (
	"reflect"
	"testing"
)

func TestBotRecordRoundTrip(t *testing.T) {
	config := BotConfig{
		ID:               "01HZX",
		Name:             "pair-bot",
		Market:           MarketCrypto,
		Strategy:         StrategySmartMoney,
		Symbols:          []string{"BTC/USD", "ETH/USD"},
		Lookback:         20,
		RiskPerTrade:     0.02,
		MaxPositions:     2,
		Timeframes:       []string{"5Min", "1Hour"},
		VolatilityWindow: 20,
	}

	record := NewBotRecord(config, true)
	if record.Symbols != "BTC/USD,ETH/USD" || record.Timeframes != "5Min,1Hour" {
		t.Fatalf("list fields must flatten to CSV: %q / %q", record.Symbols, record.Timeframes)
	}
	if !record.IsRunning {
		t.Fatal("running flag lost")
	}

	got := record.Config()
	if !reflect.DeepEqual(got, config) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, config)
	}
}

func TestBotConfigEmptyLists(t *testing.T) {
	config := Bot{ID: "01HZX"}.Config()
	if config.Symbols != nil || config.Timeframes != nil {
		t.Fatalf("empty stored lists must stay nil, got %v / %v", config.Symbols, config.Timeframes)
	}
}
