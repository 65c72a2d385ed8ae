package domain

// Direction is the side of the market a liquidity sweep resolved toward.
type Direction string

const (
	// DirectionBullish: liquidity was taken below a recent low and price
	// reversed up.
	DirectionBullish Direction = "bullish"
	// DirectionBearish: liquidity was taken above a recent high and price
	// reversed down.
	DirectionBearish Direction = "bearish"
)

// No-signal reasons reported by the sweep detector. These are normal
// terminal outcomes, not errors.
const (
	ReasonNotEnoughData    = "not_enough_data"
	ReasonNoSweep          = "no_sweep"
	ReasonNotEnoughTouches = "not_enough_touches"
	ReasonNoConfirm        = "no_confirm"
	ReasonBullConfirm      = "bull_confirm"
	ReasonSweepReject      = "sweep_reject"
)

// Detection is the tagged outcome of the sweep detector. When Signaled is
// false, Reason carries the no-signal reason and the remaining fields are
// zero. When Signaled is true, Sweep is the candle that took liquidity,
// Confirm is the opposite-colored candle that followed it, and SweepIndex is
// the sweep candle's index in the full input series.
type Detection struct {
	Signaled   bool      `json:"signaled"`
	Reason     string    `json:"reason,omitempty"`
	Direction  Direction `json:"direction,omitempty"`
	Sweep      Candle    `json:"sweep,omitempty"`
	Confirm    Candle    `json:"confirm,omitempty"`
	SweepIndex int       `json:"sweep_index,omitempty"`
}

// NoSignal builds a no-signal Detection with the given reason.
func NoSignal(reason string) Detection {
	return Detection{Reason: reason}
}

// Retest is the tagged outcome of the retest confirmer. When Confirmed is
// false, Reason explains the rejection. When Confirmed is true, Entry is the
// confirmation candle's close rounded to entry precision and Confirm is the
// fine-resolution candle that confirmed the retest.
type Retest struct {
	Confirmed bool    `json:"confirmed"`
	Reason    string  `json:"reason,omitempty"`
	Entry     float64 `json:"entry,omitempty"`
	Confirm   Candle  `json:"confirm,omitempty"`
}

// NotConfirmed builds a rejected Retest with the given reason.
func NotConfirmed(reason string) Retest {
	return Retest{Reason: reason}
}
