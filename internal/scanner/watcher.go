package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/asadbukhari/liqmatrix/internal/domain"
	"github.com/asadbukhari/liqmatrix/internal/notify"
)

// Watcher tracks confirmed trade plans and alerts when a live price tick
// reaches a plan's entry level. Each plan alerts at most once; a new Track
// call for the same symbol re-arms it.
type Watcher struct {
	mu      sync.Mutex
	plans   map[string]domain.TradePlan
	alerted map[string]bool

	notifier *notify.Notifier
	logger   *slog.Logger
}

// NewWatcher creates an empty Watcher.
func NewWatcher(notifier *notify.Notifier, logger *slog.Logger) *Watcher {
	return &Watcher{
		plans:    make(map[string]domain.TradePlan),
		alerted:  make(map[string]bool),
		notifier: notifier,
		logger:   logger.With(slog.String("component", "watcher")),
	}
}

// Track registers a plan for entry alerts, replacing any previous plan for
// the same symbol.
func (w *Watcher) Track(plan domain.TradePlan) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.plans[plan.Symbol] = plan
	w.alerted[plan.Symbol] = false
	w.logger.Info("tracking plan",
		slog.String("symbol", plan.Symbol),
		slog.String("side", string(plan.Side)),
		slog.Float64("entry", plan.Entry),
	)
}

// TrackAlerts registers the plans of all confirmed alerts from a scan.
func (w *Watcher) TrackAlerts(alerts []Alert) {
	for _, a := range alerts {
		if a.Confirmed() {
			w.Track(*a.Analysis.Plan)
		}
	}
}

// HandlePrice is the feed tick handler. It alerts once when price crosses
// into a tracked plan's entry, as long as the stop has not been taken out
// first.
func (w *Watcher) HandlePrice(ctx context.Context, symbol string, price float64, ts time.Time) {
	w.mu.Lock()
	plan, ok := w.plans[symbol]
	if !ok || w.alerted[symbol] {
		w.mu.Unlock()
		return
	}
	if !entryReached(plan, price) {
		w.mu.Unlock()
		return
	}
	w.alerted[symbol] = true
	w.mu.Unlock()

	msg := fmt.Sprintf("🎯 <b>%s</b> reached the %s entry.\nPrice: <code>%s</code>\nEntry: <code>%s</code>\nSL: <code>%s</code>\nTP: <code>%s</code>",
		symbol,
		plan.Side,
		formatPrice(price),
		formatPrice(plan.Entry),
		formatPrice(plan.StopLoss),
		formatPrice(plan.TakeProfit),
	)
	if err := w.notifier.Notify(ctx, notify.EventSetup, "", msg); err != nil {
		w.logger.WarnContext(ctx, "entry alert delivery failed",
			slog.String("symbol", symbol),
			slog.String("error", err.Error()),
		)
	}
	w.logger.InfoContext(ctx, "entry reached",
		slog.String("symbol", symbol),
		slog.Float64("price", price),
		slog.Time("tick", ts),
	)
}

// entryReached reports whether price has crossed into the plan's entry
// without first blowing through the stop.
func entryReached(plan domain.TradePlan, price float64) bool {
	if plan.Side == domain.SideLong {
		return price <= plan.Entry && price > plan.StopLoss
	}
	return price >= plan.Entry && price < plan.StopLoss
}
