package scanner

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/asadbukhari/liqmatrix/internal/domain"
)

func TestFormatAnalysis_NoPlan(t *testing.T) {
	a := domain.Analysis{
		Symbol: "XAU/USD",
		Liquidity: domain.LiquiditySnapshot{
			RecentLow:  3301.125,
			RecentHigh: 3342.5,
			LastClose:  3310.75,
		},
	}

	msg := FormatAnalysis(a)
	assert.Contains(t, msg, "<b>XAU/USD</b>")
	assert.Contains(t, msg, "No qualified setup")
	assert.Contains(t, msg, "Low 3301.125 | High 3342.5")
	assert.Contains(t, msg, "Last Close: 3310.75")
}

func TestFormatAnalysis_ShortPlanIncludesTP1(t *testing.T) {
	confirm := domain.Candle{
		Timestamp: time.Date(2025, 1, 2, 14, 45, 0, 0, time.UTC),
		Open:      108, High: 108.5, Low: 106.5, Close: 107,
	}
	a := domain.Analysis{
		Symbol: "BTC/USD",
		Plan: &domain.TradePlan{
			Symbol:      "BTC/USD",
			Side:        domain.SideShort,
			Entry:       107.5,
			StopLoss:    112,
			TakeProfit:  89.5,
			TakeProfit1: 103,
			Confidence:  0.8,
			Logic:       "Liquidity sweep of highs + rejection",
			Confirm:     confirm,
		},
	}

	msg := FormatAnalysis(a)
	assert.Contains(t, msg, "Confirmed Setup — BTC/USD")
	assert.Contains(t, msg, "Side: SHORT")
	assert.Contains(t, msg, "Entry: <code>107.5</code>")
	assert.Contains(t, msg, "SL: <code>112</code>")
	assert.Contains(t, msg, "TP: <code>89.5</code>")
	assert.Contains(t, msg, "TP1: <code>103</code>")
	assert.Contains(t, msg, "Confidence: 80%")
	assert.Contains(t, msg, "2025-01-02T14:45:00Z")
}

func TestFormatScanError(t *testing.T) {
	msg := FormatScanError("XAU/USD", errors.New("fetch failed"))
	assert.Equal(t, "⚠ XAU/USD — scan failed: fetch failed", msg)
}
