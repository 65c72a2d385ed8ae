package engine

import (
	"fmt"

	"github.com/asadbukhari/liqmatrix/internal/domain"
)

// Analyzer composes the summarizer, detector, confirmer, and plan builder
// into the single entry point consumed by the delivery layer. It holds only
// immutable configuration, so one Analyzer can serve any number of
// concurrent callers.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer builds an Analyzer, filling unset config fields from
// DefaultConfig.
func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg.withDefaults()}
}

// Config returns the effective configuration after defaulting.
func (a *Analyzer) Config() Config { return a.cfg }

// Analyze runs the full pipeline for one symbol over already-fetched coarse
// (15m) and fine (5m) series: validate -> liquidity snapshot -> sweep
// detection -> (bullish only) retest confirmation -> trade plan.
//
// A no-signal or not-confirmed outcome is a normal result, not an error;
// errors are reserved for malformed or insufficient input. Analyze is
// deterministic: identical inputs always produce identical output.
func (a *Analyzer) Analyze(symbol string, coarse, fine domain.Series) (domain.Analysis, error) {
	inst, ok := a.cfg.Instruments[symbol]
	if !ok {
		return domain.Analysis{}, fmt.Errorf("engine: %q: %w", symbol, domain.ErrUnknownInstrument)
	}

	if len(coarse) < a.cfg.MinCandles {
		return domain.Analysis{}, fmt.Errorf("engine: %s coarse series has %d candles, need %d: %w",
			symbol, len(coarse), a.cfg.MinCandles, domain.ErrInsufficientData)
	}
	if len(fine) < a.cfg.MinCandles {
		return domain.Analysis{}, fmt.Errorf("engine: %s fine series has %d candles, need %d: %w",
			symbol, len(fine), a.cfg.MinCandles, domain.ErrInsufficientData)
	}
	if err := coarse.Validate(); err != nil {
		return domain.Analysis{}, fmt.Errorf("engine: %s coarse series: %w", symbol, err)
	}
	if err := fine.Validate(); err != nil {
		return domain.Analysis{}, fmt.Errorf("engine: %s fine series: %w", symbol, err)
	}

	liquidity, err := SummarizeLiquidity(coarse, a.cfg.LiquidityWindow)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("engine: %s: %w", symbol, err)
	}

	result := domain.Analysis{
		Symbol:    symbol,
		Liquidity: liquidity,
		Latest:    coarse.Last(),
	}

	result.Detection = a.detect(coarse)
	if !result.Detection.Signaled {
		return result, nil
	}

	switch result.Detection.Direction {
	case domain.DirectionBullish:
		ret := ConfirmRetest(fine, result.Detection.Sweep.Low, result.Detection.Confirm.High, a.cfg)
		result.Retest = &ret
		if !ret.Confirmed {
			return result, nil
		}
		plan, err := buildLongPlan(symbol, inst, result.Detection, ret, a.cfg)
		if err != nil {
			return domain.Analysis{}, err
		}
		result.Plan = plan
	case domain.DirectionBearish:
		// The bearish path accepts the sweep directly; see ConfirmRetest.
		plan, err := buildShortPlan(symbol, inst, result.Detection, a.cfg)
		if err != nil {
			return domain.Analysis{}, err
		}
		result.Plan = plan
	}

	return result, nil
}

// detect scans the configured directions in priority order and returns the
// first signaled detection, or the first no-signal outcome when none fires.
func (a *Analyzer) detect(coarse domain.Series) domain.Detection {
	var first domain.Detection
	for i, dir := range a.cfg.Directions {
		det := DetectSweep(coarse, dir, a.cfg)
		if det.Signaled {
			return det
		}
		if i == 0 {
			first = det
		}
	}
	return first
}
