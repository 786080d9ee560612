package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/Emmanuel3dev/market-server/internal/logx"
)

// errorRetryDelay is how long the loop waits before retrying after a failed
// nightly run, instead of sleeping all the way to the next midnight.
const errorRetryDelay = time.Hour

// MidnightLoop fires a task at every local midnight. After each run it
// computes the next midnight from the clock, so drift never accumulates; a
// failed run is retried on a short delay first.
type MidnightLoop struct {
	run    func(ctx context.Context) error
	clock  Clock
	logger logx.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMidnightLoop creates a stopped loop around the task.
func NewMidnightLoop(run func(ctx context.Context) error, clock Clock, logger logx.Logger) *MidnightLoop {
	ctx, cancel := context.WithCancel(context.Background())
	return &MidnightLoop{
		run:    run,
		clock:  clock,
		logger: logger.With(logx.String("component", "midnight_loop")),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the loop. The first fire is the next midnight after now.
func (l *MidnightLoop) Start() {
	l.wg.Add(1)
	go l.loop()
	l.logger.Info("midnight loop started",
		logx.Time("next_run", nextMidnight(l.clock.Now())))
}

// Stop cancels the loop and waits for an in-flight run to finish.
func (l *MidnightLoop) Stop() {
	l.cancel()
	l.wg.Wait()
	l.logger.Info("midnight loop stopped")
}

func (l *MidnightLoop) loop() {
	defer l.wg.Done()

	delay := nextMidnight(l.clock.Now()).Sub(l.clock.Now())
	for {
		select {
		case <-l.ctx.Done():
			return
		case <-l.clock.After(delay):
		}

		if err := l.run(l.ctx); err != nil {
			if l.ctx.Err() != nil {
				return
			}
			l.logger.Error("nightly run failed, retrying",
				logx.Duration("retry_in", errorRetryDelay),
				logx.Any("err", err),
			)
			delay = errorRetryDelay
			continue
		}

		now := l.clock.Now()
		delay = nextMidnight(now).Sub(now)
	}
}

// nextMidnight returns the first midnight strictly after now, in now's location.
func nextMidnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
}
