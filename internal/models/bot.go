package models

import (
	"strings"
	"time"
)

// MarketKind selects which market a bot trades.
type MarketKind string

const (
	MarketCrypto MarketKind = "crypto"
	MarketEquity MarketKind = "equity"
)

// StrategyKind selects the decision algorithm a bot runs.
type StrategyKind string

const (
	StrategyMeanReversion StrategyKind = "mean_reversion"
	StrategyMovingAverage StrategyKind = "moving_average"
	StrategySmartMoney    StrategyKind = "smart_money"
)

func (m MarketKind) String() string   { return string(m) }
func (s StrategyKind) String() string { return string(s) }

// BotConfig is the immutable configuration of one trading bot. The ID is
// assigned by the server at creation; changing a bot means remove and
// recreate.
type BotConfig struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name" validate:"required"`
	Market              MarketKind   `json:"market" validate:"required,oneof=crypto equity"`
	Strategy            StrategyKind `json:"strategy" validate:"required,oneof=mean_reversion moving_average smart_money"`
	Symbols             []string     `json:"symbols" validate:"required,min=1,dive,required"`
	Lookback            int          `json:"lookback" validate:"min=1"`
	Threshold           float64      `json:"threshold"`
	RiskPerTrade        float64      `json:"risk_per_trade" validate:"gt=0,lte=1"`
	MaxPositions        int          `json:"max_positions" validate:"min=1"`
	Timeframes          []string     `json:"timeframes" validate:"required,min=1,dive,required"`
	VolatilityWindow    int          `json:"volatility_window" validate:"min=1"`
	VolatilityThreshold float64      `json:"volatility_threshold"`
}

// Bot is the persisted form of a bot configuration plus its desired run
// state. Symbol and timeframe lists are stored as comma-delimited strings.
type Bot struct {
	ID                  string    `gorm:"primaryKey;type:varchar(26)" json:"id"`
	Name                string    `gorm:"not null" json:"name"`
	Market              string    `gorm:"not null" json:"market"`
	Strategy            string    `gorm:"not null" json:"strategy"`
	Symbols             string    `gorm:"not null" json:"symbols"`
	Lookback            int       `gorm:"not null" json:"lookback"`
	Threshold           float64   `json:"threshold"`
	RiskPerTrade        float64   `gorm:"not null" json:"risk_per_trade"`
	MaxPositions        int       `json:"max_positions"`
	Timeframes          string    `gorm:"not null" json:"timeframes"`
	VolatilityWindow    int       `json:"volatility_window"`
	VolatilityThreshold float64   `json:"volatility_threshold"`
	IsRunning           bool      `gorm:"not null;index" json:"is_running"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Bot) TableName() string {
	return "bots"
}

// NewBotRecord converts a runtime configuration into its persisted form.
func NewBotRecord(config BotConfig, running bool) Bot {
	return Bot{
		ID:                  config.ID,
		Name:                config.Name,
		Market:              string(config.Market),
		Strategy:            string(config.Strategy),
		Symbols:             strings.Join(config.Symbols, ","),
		Lookback:            config.Lookback,
		Threshold:           config.Threshold,
		RiskPerTrade:        config.RiskPerTrade,
		MaxPositions:        config.MaxPositions,
		Timeframes:          strings.Join(config.Timeframes, ","),
		VolatilityWindow:    config.VolatilityWindow,
		VolatilityThreshold: config.VolatilityThreshold,
		IsRunning:           running,
	}
}

// Config rebuilds the runtime configuration from a persisted record.
func (b Bot) Config() BotConfig {
	return BotConfig{
		ID:                  b.ID,
		Name:                b.Name,
		Market:              MarketKind(b.Market),
		Strategy:            StrategyKind(b.Strategy),
		Symbols:             splitList(b.Symbols),
		Lookback:            b.Lookback,
		Threshold:           b.Threshold,
		RiskPerTrade:        b.RiskPerTrade,
		MaxPositions:        b.MaxPositions,
		Timeframes:          splitList(b.Timeframes),
		VolatilityWindow:    b.VolatilityWindow,
		VolatilityThreshold: b.VolatilityThreshold,
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
