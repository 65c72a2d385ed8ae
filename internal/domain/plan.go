package domain

import "fmt"

// Side is the direction a trade plan takes.
type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// TradePlan is a risk-defined trade derived from an accepted detection.
// Prices are rounded once, to the instrument's output precision, when the
// plan is built. Confidence is a static per-instrument heuristic weight, not
// a calibrated probability.
type TradePlan struct {
	Symbol      string  `json:"symbol"`
	Side        Side    `json:"side"`
	Entry       float64 `json:"entry"`
	StopLoss    float64 `json:"stop_loss"`
	TakeProfit  float64 `json:"take_profit"`
	TakeProfit1 float64 `json:"take_profit_1,omitempty"` // partial-exit level, short plans only
	Confidence  float64 `json:"confidence"`
	Logic       string  `json:"logic"`
	Confirm     Candle  `json:"confirm"`
}

// Validate checks the directional price ordering: long plans need
// stopLoss < entry < takeProfit, short plans the mirror.
func (p TradePlan) Validate() error {
	switch p.Side {
	case SideLong:
		if !(p.StopLoss < p.Entry && p.Entry < p.TakeProfit) {
			return fmt.Errorf("long plan violates sl < entry < tp: sl=%.6f entry=%.6f tp=%.6f",
				p.StopLoss, p.Entry, p.TakeProfit)
		}
	case SideShort:
		if !(p.TakeProfit < p.Entry && p.Entry < p.StopLoss) {
			return fmt.Errorf("short plan violates tp < entry < sl: tp=%.6f entry=%.6f sl=%.6f",
				p.TakeProfit, p.Entry, p.StopLoss)
		}
	default:
		return fmt.Errorf("unknown plan side %q", p.Side)
	}
	return nil
}

// RiskPerUnit returns the absolute distance between entry and stop.
func (p TradePlan) RiskPerUnit() float64 {
	if p.Side == SideLong {
		return p.Entry - p.StopLoss
	}
	return p.StopLoss - p.Entry
}
