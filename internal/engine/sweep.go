package engine

import "github.com/asadbukhari/liqmatrix/internal/domain"

// DetectSweep scans the last lookback+1 candles of the coarse series for a
// liquidity-sweep reversal in the given direction.
//
// A bullish sweep is a candle whose low undercuts both neighbors with a
// lower-wick fraction above the bull threshold, followed by a green candle.
// A bearish sweep is the mirror: a high above both neighbors, an upper-wick
// fraction above the bear threshold, followed by a red candle.
//
// The scan runs left to right and returns the first qualifying candle, not
// the strongest. Candles with zero range are skipped, never divided by.
func DetectSweep(series domain.Series, dir domain.Direction, cfg Config) domain.Detection {
	if len(series) < cfg.Lookback+2 {
		return domain.NoSignal(domain.ReasonNotEnoughData)
	}

	window := series.Tail(cfg.Lookback + 1)
	base := len(series) - len(window)

	for i := 1; i < len(window)-1; i++ {
		c := window[i]
		rng := c.Range()
		if rng == 0 {
			continue
		}

		switch dir {
		case domain.DirectionBullish:
			if c.Low < window[i-1].Low && c.Low < window[i+1].Low {
				wick := c.Close - c.Low
				if wick/rng > cfg.BullWickRatio && window[i+1].Green() {
					return domain.Detection{
						Signaled:   true,
						Direction:  dir,
						Sweep:      c,
						Confirm:    window[i+1],
						SweepIndex: base + i,
					}
				}
			}
		case domain.DirectionBearish:
			if c.High > window[i-1].High && c.High > window[i+1].High {
				wick := c.High - max(c.Open, c.Close)
				if wick/rng > cfg.BearWickRatio && window[i+1].Red() {
					return domain.Detection{
						Signaled:   true,
						Direction:  dir,
						Sweep:      c,
						Confirm:    window[i+1],
						SweepIndex: base + i,
					}
				}
			}
		}
	}

	return domain.NoSignal(domain.ReasonNoSweep)
}
