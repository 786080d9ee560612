// Package scheduler hosts the background timing of the maintenance jobs: a
// self-rescheduling midnight loop for the nightly batch and an hourly cron
// sweep for ephemeral-content cleanup.
package scheduler

import (
	"context"
	"fmt"

	"github.com/Emmanuel3dev/market-server/internal/logx"
	"github.com/Emmanuel3dev/market-server/internal/service/maintenance"
)

type jobErrors interface {
	Inc()
}

// Scheduler coordinates all scheduled maintenance runs.
type Scheduler struct {
	midnight *MidnightLoop
	hourly   *HourlySweep
}

// New wires the maintenance job set to its triggers.
func New(jobs *maintenance.Jobs, clock Clock, errCounter jobErrors, logger logx.Logger) *Scheduler {
	nightly := func(ctx context.Context) error {
		return jobs.RunAll(ctx, jobs.Nightly(), errCounter)
	}
	sweep := func(ctx context.Context) error {
		return jobs.RunAll(ctx, jobs.Hourly(), errCounter)
	}
	return &Scheduler{
		midnight: NewMidnightLoop(nightly, clock, logger),
		hourly:   NewHourlySweep(sweep, logger),
	}
}

// StartAll starts every trigger. Returns an error if any fails to start.
func (s *Scheduler) StartAll() error {
	if err := s.hourly.Start(); err != nil {
		return fmt.Errorf("start hourly sweep: %w", err)
	}
	s.midnight.Start()
	return nil
}

// StopAll stops every trigger gracefully.
func (s *Scheduler) StopAll() {
	s.midnight.Stop()
	s.hourly.Stop()
}
