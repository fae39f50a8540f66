package alpaca

import (
	"net/url"
	"strconv"
	"time"
)

// Side is the order direction.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// OrderType is the order kind. Only limit orders are placed by the engine.
type OrderType string

const (
	OrderTypeLimit OrderType = "limit"
)

// TimeInForce controls how long an order stays working.
type TimeInForce string

const (
	TimeInForceDay TimeInForce = "day"
	TimeInForceGTC TimeInForce = "gtc"
)

func (s Side) String() string        { return string(s) }
func (o OrderType) String() string   { return string(o) }
func (t TimeInForce) String() string { return string(t) }

// Bar is one OHLCV sample for a symbol over a timeframe.
type Bar struct {
	Timestamp  time.Time `json:"t"`
	Open       float64   `json:"o"`
	High       float64   `json:"h"`
	Low        float64   `json:"l"`
	Close      float64   `json:"c"`
	Volume     float64   `json:"v"`
	TradeCount int64     `json:"n"`
	VWAP       float64   `json:"vw"`
}

// barsResponse is the multi-symbol bars payload of the data API.
type barsResponse struct {
	Bars          map[string][]Bar `json:"bars"`
	NextPageToken *string          `json:"next_page_token"`
}

// Account is a point-in-time snapshot of the trading account. The wire
// format carries decimal strings, converted by the client.
type Account struct {
	ID          string
	Equity      float64
	BuyingPower float64
}

type accountPayload struct {
	ID          string `json:"id"`
	Equity      string `json:"equity"`
	BuyingPower string `json:"buying_power"`
}

// Position is an open position. Qty is signed: negative means short.
type Position struct {
	Symbol string
	Qty    float64
}

type positionPayload struct {
	AssetID string `json:"asset_id"`
	Symbol  string `json:"symbol"`
	Qty     string `json:"qty"`
}

// Clock is the market clock of the brokerage.
type Clock struct {
	Timestamp time.Time `json:"timestamp"`
	IsOpen    bool      `json:"is_open"`
	NextOpen  time.Time `json:"next_open"`
	NextClose time.Time `json:"next_close"`
}

// OrderRequest is an order intent submitted to the brokerage.
type OrderRequest struct {
	Symbol      string      `json:"symbol"`
	Qty         float64     `json:"qty,string"`
	Side        Side        `json:"side"`
	Type        OrderType   `json:"type"`
	TimeInForce TimeInForce `json:"time_in_force"`
	LimitPrice  float64     `json:"limit_price,string"`
	ClientID    string      `json:"client_order_id,omitempty"`
}

// Order is the brokerage acknowledgement for a submitted or listed order.
type Order struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"client_order_id"`
	Symbol      string    `json:"symbol"`
	Status      string    `json:"status"`
	Side        Side      `json:"side"`
	Type        OrderType `json:"type"`
	Qty         string    `json:"qty"`
	FilledQty   string    `json:"filled_qty"`
	LimitPrice  string    `json:"limit_price"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// OrderParams are the optional filters of the order listing endpoint.
type OrderParams struct {
	Status    string
	Limit     int
	After     string
	Until     string
	Direction string
	Nested    bool
	Symbols   string
	Side      string
}

// Query encodes the non-zero parameters as a URL query string. Keys are
// sorted by url.Values, which keeps the output deterministic.
func (p OrderParams) Query() string {
	q := url.Values{}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.After != "" {
		q.Set("after", p.After)
	}
	if p.Until != "" {
		q.Set("until", p.Until)
	}
	if p.Direction != "" {
		q.Set("direction", p.Direction)
	}
	if p.Nested {
		q.Set("nested", "true")
	}
	if p.Symbols != "" {
		q.Set("symbols", p.Symbols)
	}
	if p.Side != "" {
		q.Set("side", p.Side)
	}
	return q.Encode()
}
