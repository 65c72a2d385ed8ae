// Package scanner runs the liquidity-sweep analysis across the configured
// symbols and turns the results into operator alerts. A scan fetches the
// coarse and fine candle series for every symbol concurrently, runs the
// engine, and hands formatted messages to the notifier.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/asadbukhari/liqmatrix/internal/domain"
	"github.com/asadbukhari/liqmatrix/internal/engine"
	"github.com/asadbukhari/liqmatrix/internal/notify"
)

// Config holds the scan parameters shared by every symbol.
type Config struct {
	Symbols        []string
	CoarseInterval domain.Interval
	FineInterval   domain.Interval
	CoarseBars     int
	FineBars       int
}

// DefaultConfig covers XAU and BTC with a trading day of 15-minute candles
// and a matching window of 5-minute candles.
func DefaultConfig() Config {
	return Config{
		Symbols:        []string{"XAU/USD", "BTC/USD"},
		CoarseInterval: domain.Interval15Min,
		FineInterval:   domain.Interval5Min,
		CoarseBars:     96,
		FineBars:       288,
	}
}

// Alert is the result of scanning one symbol, ready for delivery.
type Alert struct {
	ID       string
	Symbol   string
	Event    string
	Message  string
	Analysis *domain.Analysis
	Err      error
}

// Confirmed reports whether the alert carries a complete trade plan.
func (a Alert) Confirmed() bool {
	return a.Analysis != nil && a.Analysis.Plan != nil
}

// Scanner fetches candles, runs the analysis engine, and dispatches alerts.
type Scanner struct {
	provider domain.CandleProvider
	analyzer *engine.Analyzer
	notifier *notify.Notifier
	cfg      Config
	loc      *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// New creates a Scanner. loc is the timezone used for timestamps in alert
// headers; pass nil for UTC.
func New(provider domain.CandleProvider, analyzer *engine.Analyzer, notifier *notify.Notifier, cfg Config, loc *time.Location, logger *slog.Logger) *Scanner {
	if loc == nil {
		loc = time.UTC
	}
	return &Scanner{
		provider: provider,
		analyzer: analyzer,
		notifier: notifier,
		cfg:      cfg,
		loc:      loc,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "scanner")),
	}
}

// ScanAll analyzes every configured symbol concurrently and returns one alert
// per symbol, in configuration order. Per-symbol failures become scan_error
// alerts rather than aborting the other symbols; ScanAll itself only fails on
// context cancellation.
func (s *Scanner) ScanAll(ctx context.Context) ([]Alert, error) {
	alerts := make([]Alert, len(s.cfg.Symbols))

	g, ctx := errgroup.WithContext(ctx)
	for i, symbol := range s.cfg.Symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			alerts[i] = s.scanSymbol(ctx, symbol)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scanner: %w", err)
	}
	return alerts, nil
}

// scanSymbol fetches both series for one symbol and runs the engine.
func (s *Scanner) scanSymbol(ctx context.Context, symbol string) Alert {
	alert := Alert{
		ID:     uuid.NewString(),
		Symbol: symbol,
	}

	coarse, err := s.provider.Series(ctx, symbol, s.cfg.CoarseInterval, s.cfg.CoarseBars)
	if err != nil {
		return s.failAlert(ctx, alert, fmt.Errorf("fetch %s series: %w", s.cfg.CoarseInterval, err))
	}
	fine, err := s.provider.Series(ctx, symbol, s.cfg.FineInterval, s.cfg.FineBars)
	if err != nil {
		return s.failAlert(ctx, alert, fmt.Errorf("fetch %s series: %w", s.cfg.FineInterval, err))
	}

	analysis, err := s.analyzer.Analyze(symbol, coarse, fine)
	if err != nil {
		return s.failAlert(ctx, alert, fmt.Errorf("analyze: %w", err))
	}

	alert.Analysis = &analysis
	alert.Message = FormatAnalysis(analysis)
	if analysis.Plan != nil {
		alert.Event = notify.EventSetup
		s.logger.InfoContext(ctx, "setup confirmed",
			slog.String("alert_id", alert.ID),
			slog.String("symbol", symbol),
			slog.String("side", string(analysis.Plan.Side)),
			slog.Float64("entry", analysis.Plan.Entry),
		)
	} else {
		alert.Event = notify.EventNoSetup
		s.logger.InfoContext(ctx, "no setup",
			slog.String("alert_id", alert.ID),
			slog.String("symbol", symbol),
			slog.String("reason", analysis.Detection.Reason),
		)
	}
	return alert
}

func (s *Scanner) failAlert(ctx context.Context, alert Alert, err error) Alert {
	alert.Event = notify.EventScanError
	alert.Err = err
	alert.Message = FormatScanError(alert.Symbol, err)
	s.logger.ErrorContext(ctx, "symbol scan failed",
		slog.String("alert_id", alert.ID),
		slog.String("symbol", alert.Symbol),
		slog.String("error", err.Error()),
	)
	return alert
}

// RunOnce scans every symbol and delivers one alert each, setup or not.
func (s *Scanner) RunOnce(ctx context.Context) ([]Alert, error) {
	alerts, err := s.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range alerts {
		if err := s.notifier.Notify(ctx, a.Event, "", a.Message); err != nil {
			s.logger.WarnContext(ctx, "alert delivery failed",
				slog.String("alert_id", a.ID),
				slog.String("error", err.Error()),
			)
		}
	}
	return alerts, nil
}

// RunPreSession performs the pre-open sweep: a header announcing the scan,
// then one alert per symbol whether or not a setup was found.
func (s *Scanner) RunPreSession(ctx context.Context) error {
	header := fmt.Sprintf("Time: %s\nScanning %d symbols...",
		s.now().In(s.loc).Format("2006-01-02 15:04"), len(s.cfg.Symbols))
	if err := s.notifier.Notify(ctx, notify.EventPreSession, "🕒 Pre-NY Alert", header); err != nil {
		s.logger.WarnContext(ctx, "pre-session header delivery failed", slog.String("error", err.Error()))
	}

	_, err := s.RunOnce(ctx)
	return err
}

// RunPostOpen performs the post-open sweep: only confirmed setups are
// delivered, each prefixed with a confirmed-setup header.
func (s *Scanner) RunPostOpen(ctx context.Context) error {
	alerts, err := s.ScanAll(ctx)
	if err != nil {
		return err
	}

	confirmed := 0
	for _, a := range alerts {
		if !a.Confirmed() {
			continue
		}
		confirmed++
		title := fmt.Sprintf("🕒 NY Confirmed Setup Alert\nTime: %s",
			s.now().In(s.loc).Format("2006-01-02 15:04"))
		if err := s.notifier.Notify(ctx, a.Event, title, a.Message); err != nil {
			s.logger.WarnContext(ctx, "alert delivery failed",
				slog.String("alert_id", a.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	if confirmed == 0 {
		s.logger.InfoContext(ctx, "post-open scan found no confirmed setup")
	}
	return nil
}
