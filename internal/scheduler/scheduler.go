// Package scheduler runs periodic dashboard refreshes on a cron spec.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/matheuskafuri/marketpulse/internal/logger"
)

// Scheduler wraps a seconds-resolution cron.
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

// cronLogger adapts the zap logger to cron.Logger.
type cronLogger struct{ l *logger.Logger }

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}

// New returns a scheduler whose jobs are skipped while a previous run of the
// same job is still going.
func New(log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Get()
	}
	log = log.With("component", "scheduler")
	cl := cronLogger{l: log}
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log: log,
	}
}

// RegisterRefresh runs fn on spec. Each run gets its own timeout derived from ctx.
func (s *Scheduler) RegisterRefresh(ctx context.Context, spec string, timeout time.Duration, fn func(context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		runCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		start := time.Now()
		if err := fn(runCtx); err != nil {
			s.log.Warnw("scheduled refresh failed", "error", err)
			return
		}
		s.log.Infow("scheduled refresh", "duration", time.Since(start))
	})
	if err != nil {
		return fmt.Errorf("register refresh %q: %w", spec, err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infow("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Infow("scheduler stopped")
}

// Next reports when the earliest job runs next, zero when nothing is scheduled.
func (s *Scheduler) Next() time.Time {
	var next time.Time
	for _, e := range s.cron.Entries() {
		if next.IsZero() || (!e.Next.IsZero() && e.Next.Before(next)) {
			next = e.Next
		}
	}
	return next
}
