package alpaca

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
)

// TradeUpdate is one event on the trade-update stream (fill, partial fill,
// cancel, rejection).
type TradeUpdate struct {
	Event string `json:"event"`
	Price string `json:"price"`
	Qty   string `json:"qty"`
	Order Order  `json:"order"`
}

type streamMessage struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

type streamAuth struct {
	Action string `json:"action"`
	Key    string `json:"key"`
	Secret string `json:"secret"`
}

type streamListen struct {
	Action string `json:"action"`
	Data   struct {
		Streams []string `json:"streams"`
	} `json:"data"`
}

// ListenTradeUpdates connects to the trade-update stream and invokes fn for
// every update until the context is cancelled or the connection drops. The
// caller owns the restart policy.
func (c *Client) ListenTradeUpdates(ctx context.Context, fn func(TradeUpdate)) error {
	if c.config.StreamURL == "" {
		return fmt.Errorf("alpaca: stream url not configured")
	}

	dialer := websocket.Dialer{}
	conn, _, err := dialer.DialContext(ctx, c.config.StreamURL, nil)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer conn.Close()

	if err := conn.WriteJSON(streamAuth{Action: "auth", Key: c.config.APIKey, Secret: c.config.SecretKey}); err != nil {
		return &TransportError{Err: err}
	}
	listen := streamListen{Action: "listen"}
	listen.Data.Streams = []string{"trade_updates"}
	if err := conn.WriteJSON(listen); err != nil {
		return &TransportError{Err: err}
	}

	// Unblock ReadMessage when the context is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &TransportError{Err: err}
		}

		var msg streamMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue // skip control frames and malformed payloads
		}
		if msg.Stream != "trade_updates" {
			continue
		}

		var update TradeUpdate
		if err := json.Unmarshal(msg.Data, &update); err != nil {
			continue
		}
		fn(update)
	}
}
