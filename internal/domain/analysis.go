package domain

// LiquiditySnapshot summarizes the liquidity zone of a candle window: the
// lowest low, the highest high, and the close of the final candle. It is
// recomputed on every analysis and never cached.
type LiquiditySnapshot struct {
	RecentLow  float64 `json:"recent_low"`
	RecentHigh float64 `json:"recent_high"`
	LastClose  float64 `json:"last_close"`
}

// Analysis is the full result of analyzing one symbol: the liquidity
// snapshot, the detection outcome, the retest outcome (bullish signals
// only), the derived trade plan when one qualified, and the latest coarse
// candle. Plan is nil when no qualifying setup was found.
type Analysis struct {
	Symbol    string            `json:"symbol"`
	Liquidity LiquiditySnapshot `json:"liquidity"`
	Detection Detection         `json:"detection"`
	Retest    *Retest           `json:"retest,omitempty"`
	Plan      *TradePlan        `json:"plan,omitempty"`
	Latest    Candle            `json:"latest"`
}
