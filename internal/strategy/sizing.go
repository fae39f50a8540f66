package strategy

import (
	"math"

	"github.com/treansai/traidano/pkg/alpaca"
)

// limitOffset is the fractional price buffer applied to limit orders in
// the direction that improves fill probability.
const limitOffset = 0.001

// PositionSize computes a whole-unit order quantity from account equity,
// the per-trade risk fraction and the current price, capped by buying
// power. A non-positive result means no order.
func PositionSize(account alpaca.Account, price, riskPerTrade float64) float64 {
	if price <= 0 {
		return 0
	}
	qty := account.Equity * riskPerTrade / price
	if maxAffordable := account.BuyingPower / price; maxAffordable < qty {
		qty = maxAffordable
	}
	return math.Floor(qty)
}

// LimitPrice offsets the last price by 0.1% towards the taker side: buys
// bid slightly above, sells offer slightly below.
func LimitPrice(price float64, side alpaca.Side) float64 {
	if side == alpaca.SideBuy {
		return price * (1 + limitOffset)
	}
	return price * (1 - limitOffset)
}

// limitOrder assembles the standard day limit order the strategies emit.
func limitOrder(symbol string, side alpaca.Side, qty, price float64) alpaca.OrderRequest {
	return alpaca.OrderRequest{
		Symbol:      symbol,
		Qty:         qty,
		Side:        side,
		Type:        alpaca.OrderTypeLimit,
		TimeInForce: alpaca.TimeInForceDay,
		LimitPrice:  LimitPrice(price, side),
	}
}
