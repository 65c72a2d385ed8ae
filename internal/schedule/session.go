package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Job is a unit of scheduled work.
type Job func(ctx context.Context) error

// Session drives the two daily scans around the New York open: a pre-open
// sweep that always reports, and a post-open sweep that reports confirmed
// setups only. Cron expressions are evaluated in the configured location, and
// weekend triggers are skipped when the markets are closed.
type Session struct {
	preCron  cronSchedule
	postCron cronSchedule
	preExpr  string
	postExpr string
	loc      *time.Location
	weekends bool
	preJob   Job
	postJob  Job
	logger   *slog.Logger
	now      func() time.Time
}

// NewSession creates a Session. preExpr and postExpr are 5-field cron
// expressions interpreted in loc; weekends controls whether Saturday and
// Sunday triggers run.
func NewSession(preExpr, postExpr string, loc *time.Location, weekends bool, preJob, postJob Job, logger *slog.Logger) (*Session, error) {
	pre, err := parseCron(preExpr)
	if err != nil {
		return nil, fmt.Errorf("schedule: pre-session cron %q: %w", preExpr, err)
	}
	post, err := parseCron(postExpr)
	if err != nil {
		return nil, fmt.Errorf("schedule: post-open cron %q: %w", postExpr, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Session{
		preCron:  pre,
		postCron: post,
		preExpr:  preExpr,
		postExpr: postExpr,
		loc:      loc,
		weekends: weekends,
		preJob:   preJob,
		postJob:  postJob,
		logger:   logger.With(slog.String("component", "schedule")),
		now:      time.Now,
	}, nil
}

// Run starts both cron loops and blocks until the context is cancelled. Job
// failures are logged and the loops continue; Run only returns the context's
// error.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info("session scheduler starting",
		slog.String("pre_cron", s.preExpr),
		slog.String("post_cron", s.postExpr),
		slog.String("timezone", s.loc.String()),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.runLoop(ctx, "pre_session", s.preCron, s.preJob)
	})
	g.Go(func() error {
		return s.runLoop(ctx, "post_open", s.postCron, s.postJob)
	})

	err := g.Wait()
	if ctx.Err() != nil {
		s.logger.Info("session scheduler stopped")
		return ctx.Err()
	}
	return err
}

// runLoop fires the job at every cron trigger until ctx is cancelled.
func (s *Session) runLoop(ctx context.Context, name string, cron cronSchedule, job Job) error {
	for {
		next, err := cron.next(s.now().In(s.loc))
		if err != nil {
			return fmt.Errorf("schedule: %s: %w", name, err)
		}

		wait := next.Sub(s.now())
		s.logger.Info("waiting for next trigger",
			slog.String("job", name),
			slog.Time("next_run", next),
			slog.Duration("wait", wait),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if s.skipNow(next) {
			s.logger.Info("weekend, skipping trigger",
				slog.String("job", name),
				slog.Time("trigger", next),
			)
			continue
		}

		s.logger.Info("trigger fired", slog.String("job", name), slog.Time("trigger", next))
		if err := job(ctx); err != nil {
			s.logger.Error("job failed",
				slog.String("job", name),
				slog.String("error", err.Error()),
			)
		}
	}
}

// skipNow reports whether a trigger at t should be skipped for the weekend.
func (s *Session) skipNow(t time.Time) bool {
	if s.weekends {
		return false
	}
	wd := t.In(s.loc).Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
