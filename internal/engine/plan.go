package engine

import (
	"fmt"

	"github.com/asadbukhari/liqmatrix/internal/domain"
)

// buildLongPlan converts a confirmed bullish detection into a long trade
// plan. The stop sits below the sweep low by the instrument stop buffer; the
// target is the fixed reward multiple of the stop distance above entry.
func buildLongPlan(symbol string, inst Instrument, det domain.Detection, ret domain.Retest, cfg Config) (*domain.TradePlan, error) {
	entry := ret.Entry
	sl := det.Sweep.Low - inst.StopBuffer
	tp := entry + (entry-sl)*cfg.RewardRatio

	plan := &domain.TradePlan{
		Symbol:     symbol,
		Side:       domain.SideLong,
		Entry:      entry,
		StopLoss:   roundTo(sl, inst.Precision),
		TakeProfit: roundTo(tp, inst.Precision),
		Confidence: inst.ConfidenceLong,
		Logic:      ret.Reason,
		Confirm:    ret.Confirm,
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("engine: long plan for %s: %w", symbol, err)
	}
	return plan, nil
}

// buildShortPlan converts an accepted bearish detection into a short trade
// plan. The entry is the more conservative of the confirmation open minus a
// small offset and the midpoint between the confirmation close and the swept
// high. Besides the full take-profit, a 1R partial-exit level is produced.
func buildShortPlan(symbol string, inst Instrument, det domain.Detection, cfg Config) (*domain.TradePlan, error) {
	sweepHigh := det.Sweep.High
	sl := sweepHigh + inst.RiskUnit
	entry := min(det.Confirm.Open-inst.EntryOffset, (det.Confirm.Close+sweepHigh)/2)
	risk := sl - entry
	tp := entry - risk*cfg.RewardRatio
	tp1 := entry - risk

	plan := &domain.TradePlan{
		Symbol:      symbol,
		Side:        domain.SideShort,
		Entry:       roundTo(entry, inst.Precision),
		StopLoss:    roundTo(sl, inst.Precision),
		TakeProfit:  roundTo(tp, inst.Precision),
		TakeProfit1: roundTo(tp1, inst.Precision),
		Confidence:  inst.ConfidenceShort,
		Logic:       domain.ReasonSweepReject,
		Confirm:     det.Confirm,
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("engine: short plan for %s: %w", symbol, err)
	}
	return plan, nil
}
