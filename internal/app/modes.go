package app

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/asadbukhari/liqmatrix/internal/schedule"
)

// ScanMode runs a single sweep over all configured symbols, delivers the
// alerts, and exits.
func (a *App) ScanMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "running one-shot scan")

	alerts, err := deps.Scanner.RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("app: scan: %w", err)
	}

	confirmed := 0
	for _, alert := range alerts {
		if alert.Confirmed() {
			confirmed++
		}
	}
	a.logger.InfoContext(ctx, "scan complete",
		slog.Int("symbols", len(alerts)),
		slog.Int("confirmed", confirmed),
	)
	return nil
}

// ScheduleMode runs the pre-open and post-open scans on their cron schedules
// until the context is cancelled.
func (a *App) ScheduleMode(ctx context.Context, deps *Dependencies) error {
	session, err := schedule.NewSession(
		a.cfg.Schedule.PreSessionCron,
		a.cfg.Schedule.PostOpenCron,
		deps.Location,
		a.cfg.Schedule.Weekends,
		deps.Scanner.RunPreSession,
		deps.Scanner.RunPostOpen,
		a.logger,
	)
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}

	if err := session.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("app: schedule: %w", err)
	}
	return nil
}

// WatchMode seeds the watcher with the confirmed plans from an initial scan,
// then streams live prices until the context is cancelled, alerting when a
// tracked entry is reached.
func (a *App) WatchMode(ctx context.Context, deps *Dependencies) error {
	alerts, err := deps.Scanner.ScanAll(ctx)
	if err != nil {
		return fmt.Errorf("app: watch seed scan: %w", err)
	}
	deps.Watcher.TrackAlerts(alerts)

	confirmed := 0
	for _, alert := range alerts {
		if alert.Confirmed() {
			confirmed++
		}
	}
	a.logger.InfoContext(ctx, "watch mode starting",
		slog.Int("tracked_plans", confirmed),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := deps.Feed.Run(ctx)
		if ctx.Err() != nil {
			return nil // clean shutdown
		}
		return fmt.Errorf("price feed: %w", err)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("app: watch: %w", err)
	}
	return nil
}
