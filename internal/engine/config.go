// Package engine implements the pattern detection and trade-plan core: the
// liquidity summarizer, the sweep detector, the retest confirmer, the trade
// plan builder, and the analyzer that composes them per symbol. Everything
// in this package is a pure function of its inputs; no I/O, no clock, no
// shared state.
package engine

import (
	"math"

	"github.com/asadbukhari/liqmatrix/internal/domain"
)

// Instrument holds the fixed per-symbol risk constants. These are
// configuration, never derived from volatility.
type Instrument struct {
	// StopBuffer is subtracted from the sweep low to place a long stop, in
	// absolute price units (e.g. 5 pips * 0.01 for gold, 350 for BTC).
	StopBuffer float64
	// RiskUnit is added to the sweep high to place a short stop, in absolute
	// price units.
	RiskUnit float64
	// EntryOffset is subtracted from the confirmation candle's open when
	// computing a short entry.
	EntryOffset float64
	// Precision is the output decimal precision for plan prices.
	Precision int
	// ConfidenceLong and ConfidenceShort are static heuristic weights
	// attached to plans, not calibrated probabilities.
	ConfidenceLong  float64
	ConfidenceShort float64
}

// Config tunes the detection heuristic. Zero values are replaced by the
// defaults from DefaultConfig when the Analyzer is constructed.
type Config struct {
	// Lookback is the sweep scan window size L; the detector examines the
	// last L+1 candles.
	Lookback int
	// MinCandles is the minimum length of each input series.
	MinCandles int
	// BullWickRatio is the minimum lower-wick fraction of the full range for
	// a bullish sweep candle.
	BullWickRatio float64
	// BearWickRatio is the minimum upper-wick fraction for a bearish sweep
	// candle. The asymmetry against BullWickRatio is intentional.
	BearWickRatio float64
	// RewardRatio is the fixed reward-to-risk multiple for take-profit.
	RewardRatio float64
	// RetestTouches is the minimum number of fine-resolution lows that must
	// revisit the retest zone.
	RetestTouches int
	// RetestWindow is how many trailing fine candles are checked for touches.
	RetestWindow int
	// ConfirmWindow is how many trailing fine candles are scanned for the
	// confirmation candle.
	ConfirmWindow int
	// RetestTolerance widens the retest zone below the sweep low, in
	// absolute price units.
	RetestTolerance float64
	// EntryPrecision is the rounding applied to the retest entry price.
	EntryPrecision int
	// LiquidityWindow is the trailing window of the liquidity snapshot;
	// 0 means the whole coarse series.
	LiquidityWindow int
	// Directions lists the sweep directions to scan, in priority order.
	Directions []domain.Direction
	// Instruments maps symbol -> risk constants. Analyzing a symbol with no
	// entry here is a configuration error.
	Instruments map[string]Instrument
}

// DefaultConfig returns the engine tuning used in production.
func DefaultConfig() Config {
	return Config{
		Lookback:        6,
		MinCandles:      20,
		BullWickRatio:   0.35,
		BearWickRatio:   0.40,
		RewardRatio:     4,
		RetestTouches:   2,
		RetestWindow:    60,
		ConfirmWindow:   6,
		RetestTolerance: 0.5,
		EntryPrecision:  3,
		Directions:      []domain.Direction{domain.DirectionBullish, domain.DirectionBearish},
		Instruments: map[string]Instrument{
			"XAU/USD": {
				StopBuffer:      0.05, // 5 pips at 0.01/pip
				RiskUnit:        0.20, // 20 pips
				EntryOffset:     0.01,
				Precision:       3,
				ConfidenceLong:  0.85,
				ConfidenceShort: 0.80,
			},
			"BTC/USD": {
				StopBuffer:      350,
				RiskUnit:        350,
				EntryOffset:     25,
				Precision:       2,
				ConfidenceLong:  0.85,
				ConfidenceShort: 0.80,
			},
		},
	}
}

// withDefaults fills any zero field from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Lookback <= 0 {
		c.Lookback = def.Lookback
	}
	if c.MinCandles <= 0 {
		c.MinCandles = def.MinCandles
	}
	if c.BullWickRatio <= 0 {
		c.BullWickRatio = def.BullWickRatio
	}
	if c.BearWickRatio <= 0 {
		c.BearWickRatio = def.BearWickRatio
	}
	if c.RewardRatio <= 0 {
		c.RewardRatio = def.RewardRatio
	}
	if c.RetestTouches <= 0 {
		c.RetestTouches = def.RetestTouches
	}
	if c.RetestWindow <= 0 {
		c.RetestWindow = def.RetestWindow
	}
	if c.ConfirmWindow <= 0 {
		c.ConfirmWindow = def.ConfirmWindow
	}
	if c.RetestTolerance <= 0 {
		c.RetestTolerance = def.RetestTolerance
	}
	if c.EntryPrecision <= 0 {
		c.EntryPrecision = def.EntryPrecision
	}
	if len(c.Directions) == 0 {
		c.Directions = def.Directions
	}
	if c.Instruments == nil {
		c.Instruments = def.Instruments
	}
	return c
}

// roundTo rounds x to the given number of decimal places. Plan prices are
// rounded exactly once, at the output boundary; intermediate arithmetic
// stays at full precision.
func roundTo(x float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(x*p) / p
}
