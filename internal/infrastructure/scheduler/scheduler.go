// Package scheduler runs periodic maintenance for stores that have no
// native record expiry.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper deletes records whose eviction time is before now.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (int64, error)
}

type Scheduler struct {
	cron *cron.Cron
	now  func() time.Time
}

func New() *Scheduler {
	return &Scheduler{cron: cron.New(), now: time.Now}
}

// AddSweep registers s under a standard five-field cron spec.
func (s *Scheduler) AddSweep(spec, name string, sw Sweeper) error {
	_, err := s.cron.AddFunc(spec, func() { s.runSweep(name, sw) })
	if err != nil {
		return fmt.Errorf("schedule %s sweep %q: %w", name, spec, err)
	}
	slog.Info("sweep scheduled", "store", name, "spec", spec)
	return nil
}

func (s *Scheduler) runSweep(name string, sw Sweeper) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	n, err := sw.Sweep(ctx, s.now().UTC())
	if err != nil {
		slog.Error("sweep failed", "store", name, "err", err)
		return
	}
	if n > 0 {
		slog.Info("swept expired otp records", "store", name, "count", n)
	}
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
