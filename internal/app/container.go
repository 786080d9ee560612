package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"github.com/Emmanuel3dev/market-server/internal/config"
	"github.com/Emmanuel3dev/market-server/internal/gateway/media"
	"github.com/Emmanuel3dev/market-server/internal/gateway/push"
	"github.com/Emmanuel3dev/market-server/internal/http/handlers"
	"github.com/Emmanuel3dev/market-server/internal/http/router"
	"github.com/Emmanuel3dev/market-server/internal/logx"
	"github.com/Emmanuel3dev/market-server/internal/metrics"
	"github.com/Emmanuel3dev/market-server/internal/repository"
	"github.com/Emmanuel3dev/market-server/internal/scheduler"
	"github.com/Emmanuel3dev/market-server/internal/service/courier"
	"github.com/Emmanuel3dev/market-server/internal/service/dispatch"
	"github.com/Emmanuel3dev/market-server/internal/service/maintenance"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error)
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(
	fn func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns the HTTP service container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// MustBuildWorker builds and returns the maintenance worker container
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerMetrics(container); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if err := registerStores(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("stores: %w", err)
	}
	if err := registerGateways(container); err != nil {
		return nil, fmt.Errorf("gateways: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerMetrics(container); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if err := registerStores(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("stores: %w", err)
	}
	if err := registerGateways(container); err != nil {
		return nil, fmt.Errorf("gateways: %w", err)
	}
	if err := registerMaintenance(container); err != nil {
		return nil, fmt.Errorf("maintenance: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns the HTTP service container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds and returns the maintenance worker container
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuildWorker(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		func() *log.Logger { return log.Default() },
		config.Load,
		NewLogger,
	)
}

func registerMetrics(container *dig.Container) error {
	named := []struct {
		name string
		fn   any
	}{
		{name: "rate_limit_exceeded_total", fn: metrics.NewRateLimitExceededTotal},
		{name: "gateway_retries_total", fn: metrics.NewGatewayRetriesTotal},
		{name: "deliveries_assigned_total", fn: metrics.NewDeliveriesAssignedTotal},
		{name: "dispatch_failures_total", fn: metrics.NewDispatchFailuresTotal},
		{name: "maintenance_job_errors_total", fn: metrics.NewMaintenanceJobErrorsTotal},
	}
	for _, m := range named {
		if err := container.Provide(m.fn, dig.Name(m.name)); err != nil {
			return fmt.Errorf("provide %s: %w", m.name, err)
		}
	}
	return nil
}

func registerStores(
	container *dig.Container,
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) error {
	providerDB := func(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
		return dbConnect(ctx, cfg.DB.DSN(), 10, time.Second)
	}
	providerCounters := func(cfg *config.Config) (*repository.CounterStore, error) {
		return repository.NewCounterStore(cfg.Redis.Addr)
	}
	return provideAll(container,
		providerDB,
		providerCounters,
		repository.NewCourierRepo,
		repository.NewDeliveryRepo,
		repository.NewSubscriptionRepo,
		repository.NewStoryRepo,
		repository.NewUserRepo,
	)
}

type pushGatewayIn struct {
	dig.In
	Cfg     *config.Config
	Logger  logx.Logger
	Retries prometheus.Counter `name:"gateway_retries_total"`
}

func registerGateways(container *dig.Container) error {
	return provideAll(container,
		func(in pushGatewayIn) push.Gateway {
			fcm := push.NewFCMGateway(in.Cfg.Push.Endpoint, in.Cfg.Push.ServerKey)
			return push.NewRetryingGateway(fcm, in.Logger, in.Retries, push.RetryConfig{
				MaxAttempts: in.Cfg.Push.MaxAttempts,
				BaseDelay:   in.Cfg.Push.BaseDelay,
				MaxDelay:    in.Cfg.Push.MaxDelay,
			})
		},
		func(gw push.Gateway, logger logx.Logger) *push.DelayedSender {
			return push.NewDelayedSender(gw, logger)
		},
		func(cfg *config.Config) *media.Deleter {
			return media.NewDeleter(cfg.Media.Endpoint, cfg.Media.APIKey)
		},
	)
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config) time.Duration { return cfg.Dispatch.OperationTimeout },
		func(repo *repository.CourierRepo, timeout time.Duration) *courier.Service {
			return courier.NewService(repo, timeout)
		},
		func(
			repo *repository.DeliveryRepo,
			gw push.Gateway,
			counters *repository.CounterStore,
			users *repository.UserRepo,
			delayed *push.DelayedSender,
			timeout time.Duration,
			logger logx.Logger,
		) *dispatch.Service {
			return dispatch.NewService(repo, gw, counters, users, delayed, timeout, logger)
		},
	)
}

func registerMaintenance(container *dig.Container) error {
	return provideAll(container,
		func(
			subs *repository.SubscriptionRepo,
			users *repository.UserRepo,
			counters *repository.CounterStore,
			stories *repository.StoryRepo,
			deleter *media.Deleter,
			gw push.Gateway,
			logger logx.Logger,
		) *maintenance.Jobs {
			return maintenance.NewJobs(subs, users, counters, stories, deleter, gw, logger)
		},
		func() scheduler.Clock { return scheduler.RealClock{} },
		newScheduler,
	)
}

type schedulerIn struct {
	dig.In
	Jobs      *maintenance.Jobs
	Clock     scheduler.Clock
	Logger    logx.Logger
	JobErrors prometheus.Counter `name:"maintenance_job_errors_total"`
}

func newScheduler(in schedulerIn) *scheduler.Scheduler {
	return scheduler.New(in.Jobs, in.Clock, in.JobErrors, in.Logger)
}

type dispatchHandlerIn struct {
	dig.In
	Logger   logx.Logger
	Svc      *dispatch.Service
	Assigned prometheus.Counter `name:"deliveries_assigned_total"`
	Failures prometheus.Counter `name:"dispatch_failures_total"`
}

func newDispatchHandler(in dispatchHandlerIn) *handlers.DispatchHandler {
	return handlers.NewDispatchHandler(in.Logger, handlers.NewDispatchUsecase(in.Svc), in.Assigned, in.Failures)
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	return provideAll(container,
		handlers.New,
		handlers.NewCourierUsecase,
		handlers.NewCourierHandler,
		newDispatchHandler,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		router.New,
		serverProvider,
	)
}
