// Package feed streams live prices from the TwelveData quotes WebSocket for
// watch mode, where an operator tracks a confirmed plan's entry zone between
// scheduled scans.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/asadbukhari/liqmatrix/internal/domain"
)

const (
	// DefaultWSURL is the TwelveData real-time quotes endpoint.
	DefaultWSURL = "wss://ws.twelvedata.com/v1/quotes/price"

	// writeWait is the time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// readWait is the deadline extension applied after every message. The
	// server heartbeats roughly every 10 seconds.
	readWait = 45 * time.Second

	// heartbeatPeriod is how often the client sends its own heartbeat.
	heartbeatPeriod = 10 * time.Second

	// reconnectDelay is the base delay before attempting to reconnect.
	reconnectDelay = 2 * time.Second

	// maxReconnectDelay caps the exponential backoff for reconnection.
	maxReconnectDelay = 60 * time.Second
)

// TwelveDataWSFeed subscribes to live price events for a set of symbols and
// invokes the handler on each tick. It reconnects with exponential backoff on
// disconnect and resubscribes after every reconnect.
type TwelveDataWSFeed struct {
	wsURL   string
	apiKey  string
	symbols []string
	onPrice domain.PriceHandler
	logger  *slog.Logger
}

// NewTwelveDataWSFeed creates a feed for the given symbols. wsURL may be
// empty, in which case DefaultWSURL is used.
func NewTwelveDataWSFeed(wsURL, apiKey string, symbols []string, onPrice domain.PriceHandler, logger *slog.Logger) *TwelveDataWSFeed {
	if wsURL == "" {
		wsURL = DefaultWSURL
	}
	return &TwelveDataWSFeed{
		wsURL:   wsURL,
		apiKey:  apiKey,
		symbols: symbols,
		onPrice: onPrice,
		logger:  logger.With(slog.String("component", "twelvedata_ws_feed")),
	}
}

// wsCommand is the client-to-server message envelope.
type wsCommand struct {
	Action string          `json:"action"`
	Params *wsSubscription `json:"params,omitempty"`
}

type wsSubscription struct {
	Symbols string `json:"symbols"`
}

// wsEvent is the server-to-client message envelope. Price events carry the
// symbol, a unix timestamp, and the tick price.
type wsEvent struct {
	Event     string  `json:"event"`
	Symbol    string  `json:"symbol"`
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
	Status    string  `json:"status"`
}

// Run connects, subscribes, and dispatches price events until ctx is
// cancelled. Disconnects trigger reconnection with exponential backoff.
func (f *TwelveDataWSFeed) Run(ctx context.Context) error {
	if len(f.symbols) == 0 {
		f.logger.Info("no symbols to watch, exiting")
		return nil
	}

	delay := reconnectDelay
	for {
		err := f.runConnection(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		f.logger.Warn("feed disconnected, reconnecting",
			slog.String("error", err.Error()),
			slog.Duration("delay", delay),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		// Exponential backoff.
		delay *= 2
		if delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
	}
}

// runConnection dials, subscribes, and reads until the connection drops or
// ctx is cancelled.
func (f *TwelveDataWSFeed) runConnection(ctx context.Context) error {
	endpoint := f.wsURL + "?apikey=" + url.QueryEscape(f.apiKey)

	dialer := websocket.Dialer{HandshakeTimeout: 15 * time.Second}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return fmt.Errorf("feed: connect: %w", err)
	}
	defer conn.Close()

	if err := f.subscribe(conn); err != nil {
		return err
	}
	f.logger.Info("subscribed", slog.Int("symbols", len(f.symbols)))

	// Close the connection when ctx is cancelled so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			)
			conn.Close()
		case <-done:
		}
	}()

	go f.heartbeatLoop(ctx, conn)

	for {
		conn.SetReadDeadline(time.Now().Add(readWait))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("feed: read: %w", err)
		}
		f.handleMessage(ctx, raw)
	}
}

// subscribe sends the subscribe command for all configured symbols.
func (f *TwelveDataWSFeed) subscribe(conn *websocket.Conn) error {
	cmd := wsCommand{
		Action: "subscribe",
		Params: &wsSubscription{Symbols: strings.Join(f.symbols, ",")},
	}
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("feed: marshal subscribe: %w", err)
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("feed: subscribe: %w", err)
	}
	return nil
}

// heartbeatLoop keeps the connection alive. TwelveData expects an application
// level heartbeat rather than a WebSocket ping.
func (f *TwelveDataWSFeed) heartbeatLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(heartbeatPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"heartbeat"}`)); err != nil {
				return
			}
		}
	}
}

// handleMessage parses a raw message and routes price events to the handler.
// Heartbeats and subscribe acks are dropped; other events are logged.
func (f *TwelveDataWSFeed) handleMessage(ctx context.Context, raw []byte) {
	var ev wsEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return
	}

	switch ev.Event {
	case "price":
		if f.onPrice != nil {
			f.onPrice(ctx, ev.Symbol, ev.Price, time.Unix(ev.Timestamp, 0).UTC())
		}
	case "heartbeat", "subscribe-status":
		if ev.Status != "" && ev.Status != "ok" {
			f.logger.Warn("feed status not ok",
				slog.String("event", ev.Event),
				slog.String("status", ev.Status),
			)
		}
	default:
		f.logger.Debug("unhandled feed event", slog.String("event", ev.Event))
	}
}
