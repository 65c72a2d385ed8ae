package scanner

import (
	"fmt"
	"strconv"
	"time"

	"github.com/asadbukhari/liqmatrix/internal/domain"
)

// Messages use Telegram HTML markup, matching the sender's parse mode.

// FormatAnalysis renders a completed analysis as an alert body. Confirmed
// setups list the full plan; everything else gets a liquidity summary line.
func FormatAnalysis(a domain.Analysis) string {
	if a.Plan == nil {
		return fmt.Sprintf("ℹ <b>%s</b>\nNo qualified setup.\nLiquidity 24h: Low %s | High %s\nLast Close: %s",
			a.Symbol,
			formatPrice(a.Liquidity.RecentLow),
			formatPrice(a.Liquidity.RecentHigh),
			formatPrice(a.Liquidity.LastClose),
		)
	}

	p := a.Plan
	msg := fmt.Sprintf("<b>🔥 NY Confirmed Setup — %s</b>\nLogic: %s\nSide: %s\nEntry: <code>%s</code>\nSL: <code>%s</code>\nTP: <code>%s</code>\n",
		a.Symbol,
		p.Logic,
		p.Side,
		formatPrice(p.Entry),
		formatPrice(p.StopLoss),
		formatPrice(p.TakeProfit),
	)
	if p.TakeProfit1 != 0 {
		msg += fmt.Sprintf("TP1: <code>%s</code>\n", formatPrice(p.TakeProfit1))
	}
	msg += fmt.Sprintf("Confidence: %d%%\nConfirm candle: %s",
		int(p.Confidence*100),
		p.Confirm.Timestamp.UTC().Format(time.RFC3339),
	)
	return msg
}

// FormatScanError renders a per-symbol failure so operators see partial scan
// results instead of silence.
func FormatScanError(symbol string, err error) string {
	return fmt.Sprintf("⚠ %s — scan failed: %v", symbol, err)
}

// formatPrice prints a price with the fewest digits that round-trip, so
// plan levels already rounded upstream appear exactly as computed.
func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
