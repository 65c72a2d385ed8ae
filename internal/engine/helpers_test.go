package engine

import (
	"time"

	"github.com/asadbukhari/liqmatrix/internal/domain"
)

var testBase = time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)

// bar builds a candle n steps after the test base time.
func bar(n int, step time.Duration, o, h, l, c float64) domain.Candle {
	return domain.Candle{
		Timestamp: testBase.Add(time.Duration(n) * step),
		Open:      o,
		High:      h,
		Low:       l,
		Close:     c,
		Volume:    100,
	}
}

// stairsUp builds n green candles with strictly rising lows and highs. No
// candle's low undercuts both neighbors and no high exceeds its successor,
// so neither sweep direction can fire inside the run.
func stairsUp(n int, start float64, step time.Duration) domain.Series {
	s := make(domain.Series, 0, n)
	for i := 0; i < n; i++ {
		p := start + float64(i)
		s = append(s, bar(i, step, p, p+0.8, p-0.2, p+0.6))
	}
	return s
}

// stairsDown builds n red candles with strictly falling highs and lows.
// Like stairsUp, the run itself is signal-free in both directions.
func stairsDown(n int, start float64, step time.Duration) domain.Series {
	s := make(domain.Series, 0, n)
	for i := 0; i < n; i++ {
		p := start - float64(i)
		s = append(s, bar(i, step, p, p+0.2, p-0.8, p-0.6))
	}
	return s
}

// reseq rewrites timestamps so the combined series stays strictly
// increasing after appending hand-built candles.
func reseq(s domain.Series, step time.Duration) domain.Series {
	out := make(domain.Series, len(s))
	for i, c := range s {
		c.Timestamp = testBase.Add(time.Duration(i) * step)
		out[i] = c
	}
	return out
}
