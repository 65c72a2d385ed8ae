package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/asadbukhari/liqmatrix/internal/domain"
)

// SeriesCache implements domain.SeriesCache with one JSON-encoded candle
// series per key.
//
// Key schema:
//
//	series:{symbol}:{interval} - JSON array of candles, TTL = one bar length
type SeriesCache struct {
	rdb *redis.Client
}

// NewSeriesCache creates a SeriesCache backed by the given Client.
func NewSeriesCache(c *Client) *SeriesCache {
	return &SeriesCache{rdb: c.rdb}
}

func seriesKey(symbol string, interval domain.Interval) string {
	return "series:" + symbol + ":" + string(interval)
}

// Set stores a series under its symbol/interval key with the given TTL.
func (sc *SeriesCache) Set(ctx context.Context, symbol string, interval domain.Interval, series domain.Series, ttl time.Duration) error {
	data, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("redis: marshal series %s %s: %w", symbol, interval, err)
	}
	if err := sc.rdb.Set(ctx, seriesKey(symbol, interval), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set series %s %s: %w", symbol, interval, err)
	}
	return nil
}

// Get retrieves the cached series for symbol/interval. It returns
// domain.ErrNotFound when no entry exists or the entry has expired.
func (sc *SeriesCache) Get(ctx context.Context, symbol string, interval domain.Interval) (domain.Series, error) {
	data, err := sc.rdb.Get(ctx, seriesKey(symbol, interval)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get series %s %s: %w", symbol, interval, err)
	}

	var series domain.Series
	if err := json.Unmarshal(data, &series); err != nil {
		return nil, fmt.Errorf("redis: unmarshal series %s %s: %w", symbol, interval, err)
	}
	return series, nil
}

// Compile-time interface check.
var _ domain.SeriesCache = (*SeriesCache)(nil)
