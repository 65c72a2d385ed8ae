package marketdata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/asadbukhari/liqmatrix/internal/domain"
)

// creditKey is the rate-limiter key shared by all TwelveData calls; the free
// tier meters credits per API key, not per symbol.
const creditKey = "twelvedata"

// CachedProvider wraps a CandleProvider with a series cache and an API
// credit limiter. Cache hits skip the upstream call entirely; misses wait
// for a credit, fetch, and store the result with a TTL of one bar length so
// a re-scan inside the same bar never spends a second credit.
type CachedProvider struct {
	upstream domain.CandleProvider
	cache    domain.SeriesCache
	limiter  domain.RateLimiter
	limit    int
	window   time.Duration
	logger   *slog.Logger
}

// NewCachedProvider composes upstream with cache and limiter. limit and
// window describe the upstream credit quota (e.g. 8 requests per minute).
func NewCachedProvider(upstream domain.CandleProvider, cache domain.SeriesCache, limiter domain.RateLimiter, limit int, window time.Duration, logger *slog.Logger) *CachedProvider {
	return &CachedProvider{
		upstream: upstream,
		cache:    cache,
		limiter:  limiter,
		limit:    limit,
		window:   window,
		logger:   logger.With(slog.String("component", "marketdata_cache")),
	}
}

// Series returns the cached series for symbol/interval when fresh, fetching
// and caching it otherwise. Cache failures degrade to a direct fetch; they
// are logged, never fatal.
func (p *CachedProvider) Series(ctx context.Context, symbol string, interval domain.Interval, bars int) (domain.Series, error) {
	cached, err := p.cache.Get(ctx, symbol, interval)
	if err == nil && len(cached) >= bars {
		return cached.Tail(bars), nil
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		p.logger.WarnContext(ctx, "series cache read failed",
			slog.String("symbol", symbol),
			slog.String("interval", string(interval)),
			slog.String("error", err.Error()),
		)
	}

	if err := p.limiter.Wait(ctx, creditKey, p.limit, p.window); err != nil {
		return nil, fmt.Errorf("marketdata: wait for api credit: %w", err)
	}

	series, err := p.upstream.Series(ctx, symbol, interval, bars)
	if err != nil {
		return nil, err
	}

	ttl := interval.Duration()
	if ttl <= 0 {
		ttl = time.Minute
	}
	if err := p.cache.Set(ctx, symbol, interval, series, ttl); err != nil {
		p.logger.WarnContext(ctx, "series cache write failed",
			slog.String("symbol", symbol),
			slog.String("interval", string(interval)),
			slog.String("error", err.Error()),
		)
	}

	return series, nil
}

// Compile-time interface check.
var _ domain.CandleProvider = (*CachedProvider)(nil)
