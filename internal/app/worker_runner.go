package app

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"github.com/Emmanuel3dev/market-server/internal/logx"
	"github.com/Emmanuel3dev/market-server/internal/repository"
	"github.com/Emmanuel3dev/market-server/internal/scheduler"
)

// WorkerRunner runs the maintenance scheduler
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun starts the scheduler using the provided DI container
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

func workerRun(
	ctx context.Context,
	pool *pgxpool.Pool,
	counters *repository.CounterStore,
	logger logx.Logger,
	sched *scheduler.Scheduler,
) error {
	defer closeWorker(pool, counters, logger)

	if err := sched.StartAll(); err != nil {
		return err
	}
	logger.Info("market-worker started")

	<-ctx.Done()
	logger.Info("market-worker stopping")
	sched.StopAll()
	return ctx.Err()
}

func closeWorker(pool *pgxpool.Pool, counters *repository.CounterStore, logger logx.Logger) {
	if counters != nil {
		if err := counters.Close(); err != nil {
			logger.Error("counter store close error", logx.Any("err", err))
		}
	}
	if pool != nil {
		pool.Close()
	}
}
