package domain

import (
	"context"
	"time"
)

// Interval identifies a bar resolution as the upstream API spells it, e.g.
// "15min" or "5min".
type Interval string

const (
	Interval15Min Interval = "15min"
	Interval5Min  Interval = "5min"
)

// Duration returns the bar length for the interval, or 0 when the interval
// string is not a known resolution.
func (i Interval) Duration() time.Duration {
	switch i {
	case Interval15Min:
		return 15 * time.Minute
	case Interval5Min:
		return 5 * time.Minute
	default:
		return 0
	}
}

// CandleProvider fetches an oldest-first candle series for a symbol at a
// given resolution. Implementations own all network concerns (timeouts,
// retries, quotas); the engine never touches I/O.
type CandleProvider interface {
	Series(ctx context.Context, symbol string, interval Interval, bars int) (Series, error)
}

// SeriesCache stores fetched candle series keyed by symbol and interval so a
// scan does not burn upstream API credits twice for the same bar window.
// Get returns ErrNotFound when no fresh entry exists.
type SeriesCache interface {
	Get(ctx context.Context, symbol string, interval Interval) (Series, error)
	Set(ctx context.Context, symbol string, interval Interval, series Series, ttl time.Duration) error
}

// RateLimiter gates upstream API calls under a sliding-window quota. Wait
// blocks until a request for key is permitted or ctx is cancelled.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Wait(ctx context.Context, key string, limit int, window time.Duration) error
}

// PriceHandler consumes live price ticks from a streaming feed.
type PriceHandler func(ctx context.Context, symbol string, price float64, ts time.Time)
