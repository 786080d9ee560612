package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/Emmanuel3dev/market-server/internal/logx"
)

// HourlySweep runs a task at the top of every hour, with one immediate run at
// start so a freshly booted process does not wait an hour to catch up.
type HourlySweep struct {
	run    func(ctx context.Context) error
	cron   *cron.Cron
	logger logx.Logger
}

// NewHourlySweep creates a stopped sweep around the task.
func NewHourlySweep(run func(ctx context.Context) error, logger logx.Logger) *HourlySweep {
	return &HourlySweep{
		run:    run,
		cron:   cron.New(),
		logger: logger.With(logx.String("component", "hourly_sweep")),
	}
}

// Start schedules the sweep and fires the catch-up run.
func (s *HourlySweep) Start() error {
	_, err := s.cron.AddFunc("@hourly", func() {
		if err := s.run(context.Background()); err != nil {
			s.logger.Error("hourly sweep failed", logx.Any("err", err))
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("hourly sweep started")

	go func() {
		if err := s.run(context.Background()); err != nil {
			s.logger.Error("catch-up sweep failed", logx.Any("err", err))
		}
	}()
	return nil
}

// Stop halts the schedule and waits for a running sweep to return.
func (s *HourlySweep) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("hourly sweep stopped")
}
