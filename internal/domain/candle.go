// Package domain defines the core value types of the liquidity-sweep
// scanner: candles, detections, trade plans, and the interfaces implemented
// by the infrastructure adapters (market data, cache, rate limiting).
package domain

import (
	"fmt"
	"time"
)

// Candle is one normalized OHLCV bar. Prices are float64; Volume defaults to
// 0 when the upstream feed omits it.
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Validate checks the OHLC invariant: low <= min(open, close) and
// max(open, close) <= high. A violated invariant means the upstream payload
// is malformed and the candle must not be analyzed.
func (c Candle) Validate() error {
	if c.High < c.Low {
		return fmt.Errorf("%w: high %.6f below low %.6f at %s",
			ErrInvalidCandle, c.High, c.Low, c.Timestamp.Format(time.RFC3339))
	}
	body := min(c.Open, c.Close)
	if c.Low > body {
		return fmt.Errorf("%w: low %.6f above body %.6f at %s",
			ErrInvalidCandle, c.Low, body, c.Timestamp.Format(time.RFC3339))
	}
	body = max(c.Open, c.Close)
	if c.High < body {
		return fmt.Errorf("%w: high %.6f below body %.6f at %s",
			ErrInvalidCandle, c.High, body, c.Timestamp.Format(time.RFC3339))
	}
	return nil
}

// Green reports whether the candle closed above its open.
func (c Candle) Green() bool { return c.Close > c.Open }

// Red reports whether the candle closed below its open.
func (c Candle) Red() bool { return c.Close < c.Open }

// Range returns the full high-to-low extent of the candle.
func (c Candle) Range() float64 { return c.High - c.Low }

// Series is an ordered candle sequence, oldest first, strictly increasing by
// timestamp. Gaps are allowed; regular spacing is not required.
type Series []Candle

// Validate checks every candle's OHLC invariant and the strict timestamp
// ordering of the series.
func (s Series) Validate() error {
	for i, c := range s {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("candle %d: %w", i, err)
		}
		if i > 0 && !c.Timestamp.After(s[i-1].Timestamp) {
			return fmt.Errorf("%w: candle %d at %s not after candle %d",
				ErrUnorderedSeries, i, c.Timestamp.Format(time.RFC3339), i-1)
		}
	}
	return nil
}

// Last returns the final candle of the series. It panics on an empty series;
// callers must check length first.
func (s Series) Last() Candle { return s[len(s)-1] }

// Tail returns the trailing n candles, or the whole series when n <= 0 or
// n exceeds the series length.
func (s Series) Tail(n int) Series {
	if n <= 0 || n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}
