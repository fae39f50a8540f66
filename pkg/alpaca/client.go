// Package alpaca is a minimal REST client for an Alpaca-style brokerage.
// It covers exactly the surface the trading engine needs: bars, account,
// positions, market clock and orders.
package alpaca

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Config holds the endpoints and credentials of the brokerage. The trading
// API and the market data API live on different hosts.
type Config struct {
	BaseURL     string // trading API, e.g. https://paper-api.alpaca.markets
	DataBaseURL string // market data API, e.g. https://data.alpaca.markets
	StreamURL   string // trade-update stream, optional
	APIKey      string
	SecretKey   string
}

// Client is a thin HTTP wrapper. It does not rate limit; admission control
// belongs to the caller.
type Client struct {
	config Config
	http   *http.Client
}

// NewClient builds a client. It fails when the base URLs or credentials
// are missing, so a misconfigured process dies at startup instead of on
// the first tick.
func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" || config.DataBaseURL == "" {
		return nil, fmt.Errorf("alpaca: base url and data base url are required")
	}
	if config.APIKey == "" || config.SecretKey == "" {
		return nil, fmt.Errorf("alpaca: api key and secret key are required")
	}
	return &Client{
		config: config,
		http:   &http.Client{Timeout: defaultTimeout},
	}, nil
}

func (c *Client) do(ctx context.Context, method, rawURL string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &DecodeError{Err: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return &TransportError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("APCA-API-KEY-ID", c.config.APIKey)
	req.Header.Set("APCA-API-SECRET-KEY", c.config.SecretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &DecodeError{Err: err}
		}
	}
	return nil
}

func (c *Client) tradingURL(path string) string {
	return strings.TrimRight(c.config.BaseURL, "/") + path
}

func (c *Client) dataURL(path string) string {
	return strings.TrimRight(c.config.DataBaseURL, "/") + path
}

// GetAccount fetches the current account snapshot.
func (c *Client) GetAccount(ctx context.Context) (Account, error) {
	var payload accountPayload
	if err := c.do(ctx, http.MethodGet, c.tradingURL("/v2/account"), nil, &payload); err != nil {
		return Account{}, err
	}

	equity, err := strconv.ParseFloat(payload.Equity, 64)
	if err != nil {
		return Account{}, &DecodeError{Err: fmt.Errorf("parse equity %q: %w", payload.Equity, err)}
	}
	buyingPower, err := strconv.ParseFloat(payload.BuyingPower, 64)
	if err != nil {
		return Account{}, &DecodeError{Err: fmt.Errorf("parse buying_power %q: %w", payload.BuyingPower, err)}
	}

	return Account{ID: payload.ID, Equity: equity, BuyingPower: buyingPower}, nil
}

// GetPositions fetches open positions. Short positions carry a negative Qty.
func (c *Client) GetPositions(ctx context.Context) ([]Position, error) {
	var payload []positionPayload
	if err := c.do(ctx, http.MethodGet, c.tradingURL("/v2/positions"), nil, &payload); err != nil {
		return nil, err
	}

	positions := make([]Position, 0, len(payload))
	for _, p := range payload {
		qty, err := strconv.ParseFloat(p.Qty, 64)
		if err != nil {
			return nil, &DecodeError{Err: fmt.Errorf("parse qty %q for %s: %w", p.Qty, p.Symbol, err)}
		}
		positions = append(positions, Position{Symbol: p.Symbol, Qty: qty})
	}
	return positions, nil
}

// GetClock fetches the equity market clock.
func (c *Client) GetClock(ctx context.Context) (Clock, error) {
	var clock Clock
	if err := c.do(ctx, http.MethodGet, c.tradingURL("/v2/clock"), nil, &clock); err != nil {
		return Clock{}, err
	}
	return clock, nil
}

func barsQuery(symbols []string, timeframe string, limit, lookbackDays int) string {
	q := url.Values{}
	q.Set("symbols", strings.Join(symbols, ","))
	q.Set("timeframe", timeframe)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("sort", "asc")
	if lookbackDays > 0 {
		start := time.Now().UTC().AddDate(0, 0, -lookbackDays)
		q.Set("start", start.Format(time.RFC3339))
	}
	return q.Encode()
}

// GetStockBars fetches equity bars for the given symbols, oldest first.
func (c *Client) GetStockBars(ctx context.Context, symbols []string, timeframe string, limit, lookbackDays int) (map[string][]Bar, error) {
	rawURL := c.dataURL("/v2/stocks/bars") + "?" + barsQuery(symbols, timeframe, limit, lookbackDays)
	return c.getBars(ctx, rawURL)
}

// GetCryptoBars fetches crypto bars for the given symbols, oldest first.
func (c *Client) GetCryptoBars(ctx context.Context, symbols []string, timeframe string, limit, lookbackDays int) (map[string][]Bar, error) {
	rawURL := c.dataURL("/v1beta3/crypto/us/bars") + "?" + barsQuery(symbols, timeframe, limit, lookbackDays)
	return c.getBars(ctx, rawURL)
}

func (c *Client) getBars(ctx context.Context, rawURL string) (map[string][]Bar, error) {
	var payload barsResponse
	if err := c.do(ctx, http.MethodGet, rawURL, nil, &payload); err != nil {
		return nil, err
	}
	if payload.Bars == nil {
		return nil, ErrDataUnavailable
	}
	return payload.Bars, nil
}

// CreateOrder submits an order and returns the brokerage acknowledgement.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, c.tradingURL("/v2/orders"), req, &order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// ListOrders fetches orders matching the given filters.
func (c *Client) ListOrders(ctx context.Context, params OrderParams) ([]Order, error) {
	rawURL := c.tradingURL("/v2/orders")
	if q := params.Query(); q != "" {
		rawURL += "?" + q
	}
	var orders []Order
	if err := c.do(ctx, http.MethodGet, rawURL, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// StreamURL exposes the configured trade-update stream endpoint.
func (c *Client) StreamURL() string {
	return c.config.StreamURL
}

// Credentials exposes the API key pair for the stream authenticator.
func (c *Client) Credentials() (string, string) {
	return c.config.APIKey, c.config.SecretKey
}
