package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/worklab/newsdigest/internal/logger"
)

// Scheduler triggers a job on a standard five-field cron spec. A trigger
// that fires while the previous run is still going is skipped.
type Scheduler struct {
	cron     *cron.Cron
	entry    cron.EntryID
	location *time.Location
}

// cronLogger routes cron's own messages through slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}

// New schedules job. ctx is handed to every invocation.
func New(ctx context.Context, spec string, loc *time.Location, job func(ctx context.Context)) (*Scheduler, error) {
	if job == nil {
		return nil, errors.New("job must not be nil")
	}
	if loc == nil {
		loc = time.UTC
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{})),
	)
	id, err := c.AddFunc(spec, func() { job(ctx) })
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return &Scheduler{cron: c, entry: id, location: loc}, nil
}

// Next returns the next activation after the scheduler has started.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entry).Next
}

// NextAfter returns the first activation strictly after t.
func (s *Scheduler) NextAfter(t time.Time) time.Time {
	return s.cron.Entry(s.entry).Schedule.Next(t.In(s.location))
}

// Run starts the scheduler and blocks until ctx is done, then waits for a
// running job to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	logger.Info("Scheduler started", "next", s.NextAfter(time.Now()).Format(time.RFC3339))
	<-ctx.Done()
	<-s.cron.Stop().Done()
	logger.Info("Scheduler stopped")
}
