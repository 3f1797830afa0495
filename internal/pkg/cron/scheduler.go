package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs calendar-scheduled jobs. Jobs are best-effort: a failure is
// logged and the schedule keeps running.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler(loc *time.Location) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
	}
}

// AddJob registers fn under a standard cron spec (e.g. "0 9 1 * *").
func (s *Scheduler) AddJob(spec string, name string, fn func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		start := time.Now()
		if err := fn(ctx); err != nil {
			slog.Error("cron job failed", "job", name, "error", err, "duration", time.Since(start))
			return
		}
		slog.Info("cron job completed", "job", name, "duration", time.Since(start))
	})
	return err
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
