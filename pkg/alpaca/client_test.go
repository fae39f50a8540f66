package alpaca

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		BaseURL:     srv.URL,
		DataBaseURL: srv.URL,
		APIKey:      "key",
		SecretKey:   "secret",
	})
	if err != nil {
		t.Fatal(err)
	}
	return client, srv
}

func TestNewClientRejectsMissingConfig(t *testing.T) {
	if _, err := NewClient(Config{APIKey: "k", SecretKey: "s"}); err == nil {
		t.Error("missing base urls must fail")
	}
	if _, err := NewClient(Config{BaseURL: "http://x", DataBaseURL: "http://y"}); err == nil {
		t.Error("missing credentials must fail")
	}
}

func TestGetAccountParsesDecimalStrings(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/account" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("APCA-API-KEY-ID") != "key" || r.Header.Get("APCA-API-SECRET-KEY") != "secret" {
			t.Error("auth headers missing")
		}
		json.NewEncoder(w).Encode(map[string]string{
			"id":           "acct-1",
			"equity":       "100000.50",
			"buying_power": "200000",
		})
	}))

	account, err := client.GetAccount(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if account.ID != "acct-1" || account.Equity != 100000.50 || account.BuyingPower != 200000 {
		t.Fatalf("unexpected account: %+v", account)
	}
}

func TestGetAccountMalformedEquity(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "a", "equity": "oops", "buying_power": "1"})
	}))

	_, err := client.GetAccount(context.Background())
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestGetPositionsSignedQty(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{
			{"symbol": "AAPL", "qty": "10"},
			{"symbol": "TSLA", "qty": "-4"},
		})
	}))

	positions, err := client.GetPositions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(positions))
	}
	if positions[1].Symbol != "TSLA" || positions[1].Qty != -4 {
		t.Fatalf("short position must keep its sign: %+v", positions[1])
	}
}

func TestGetStockBars(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/stocks/bars" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("symbols") != "AAPL,TSLA" || q.Get("timeframe") != "5Min" || q.Get("limit") != "20" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if q.Get("sort") != "asc" {
			t.Error("bars must be requested oldest first")
		}
		if q.Get("start") == "" {
			t.Error("lookback start missing")
		}
		w.Write([]byte(`{"bars":{"AAPL":[{"t":"2026-08-28T14:30:00Z","o":1,"h":2,"l":0.5,"c":1.5,"v":100,"n":3,"vw":1.2}]}}`))
	}))

	bars, err := client.GetStockBars(context.Background(), []string{"AAPL", "TSLA"}, "5Min", 20, 3)
	if err != nil {
		t.Fatal(err)
	}
	series := bars["AAPL"]
	if len(series) != 1 || series[0].Close != 1.5 || series[0].Volume != 100 {
		t.Fatalf("unexpected bars: %+v", series)
	}
}

func TestGetBarsNilPayload(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))

	_, err := client.GetStockBars(context.Background(), []string{"AAPL"}, "5Min", 20, 3)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestCreateOrderEncodesNumbersAsStrings(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v2/orders" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body["qty"] != "12" || body["limit_price"] != "8.008" {
			t.Errorf("qty and limit_price must be decimal strings, got %v / %v", body["qty"], body["limit_price"])
		}
		if body["side"] != "buy" || body["type"] != "limit" || body["time_in_force"] != "day" {
			t.Errorf("unexpected order body: %v", body)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "order-1", "symbol": "AAPL", "status": "accepted"})
	}))

	order, err := client.CreateOrder(context.Background(), OrderRequest{
		Symbol:      "AAPL",
		Qty:         12,
		Side:        SideBuy,
		Type:        OrderTypeLimit,
		TimeInForce: TimeInForceDay,
		LimitPrice:  8.008,
	})
	if err != nil {
		t.Fatal(err)
	}
	if order.ID != "order-1" || order.Status != "accepted" {
		t.Fatalf("unexpected order: %+v", order)
	}
}

func TestUpstreamErrorMapped(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"forbidden"}`, http.StatusForbidden)
	}))

	_, err := client.GetAccount(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", apiErr.StatusCode)
	}
}

func TestOrderParamsQuery(t *testing.T) {
	q := OrderParams{Status: "open", Limit: 50, Nested: true, Symbols: "AAPL"}.Query()
	want := "limit=50&nested=true&status=open&symbols=AAPL"
	if q != want {
		t.Fatalf("got %q, want %q", q, want)
	}
	if q := (OrderParams{}).Query(); q != "" {
		t.Fatalf("empty params must encode empty, got %q", q)
	}
}
