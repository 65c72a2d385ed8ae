package engine

import "github.com/asadbukhari/liqmatrix/internal/domain"

// SummarizeLiquidity reduces the trailing window of a series to its lowest
// low, highest high, and last close. window <= 0 means the whole series.
func SummarizeLiquidity(series domain.Series, window int) (domain.LiquiditySnapshot, error) {
	if len(series) == 0 {
		return domain.LiquiditySnapshot{}, domain.ErrEmptyInput
	}

	w := series.Tail(window)
	snap := domain.LiquiditySnapshot{
		RecentLow:  w[0].Low,
		RecentHigh: w[0].High,
		LastClose:  w.Last().Close,
	}
	for _, c := range w[1:] {
		if c.Low < snap.RecentLow {
			snap.RecentLow = c.Low
		}
		if c.High > snap.RecentHigh {
			snap.RecentHigh = c.High
		}
	}
	return snap, nil
}
