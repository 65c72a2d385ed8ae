package engine

import "github.com/asadbukhari/liqmatrix/internal/domain"

// ConfirmRetest applies the two-stage confirmation to a bullish sweep: a
// structural retest of the breakout zone followed by a momentum candle on
// the fine-resolution series.
//
// The retest zone spans [sweepLow - tolerance, confirmHigh]. A touch is a
// fine candle whose low lands inside the zone; at least cfg.RetestTouches
// are required among the last cfg.RetestWindow candles. Once the touch count
// holds, the last cfg.ConfirmWindow fine candles are scanned in order and
// the first green one becomes the confirmation, with the entry set to its
// close rounded to cfg.EntryPrecision.
//
// The bearish path deliberately has no retest stage; bearish detections are
// accepted directly by the analyzer.
func ConfirmRetest(fine domain.Series, sweepLow, confirmHigh float64, cfg Config) domain.Retest {
	zoneBottom := sweepLow - cfg.RetestTolerance

	touches := 0
	for _, c := range fine.Tail(cfg.RetestWindow) {
		if c.Low >= zoneBottom && c.Low <= confirmHigh {
			touches++
		}
	}
	if touches < cfg.RetestTouches {
		return domain.NotConfirmed(domain.ReasonNotEnoughTouches)
	}

	for _, c := range fine.Tail(cfg.ConfirmWindow) {
		if c.Green() {
			return domain.Retest{
				Confirmed: true,
				Reason:    domain.ReasonBullConfirm,
				Entry:     roundTo(c.Close, cfg.EntryPrecision),
				Confirm:   c,
			}
		}
	}
	return domain.NotConfirmed(domain.ReasonNoConfirm)
}
