package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"github.com/Emmanuel3dev/market-server/internal/config"
	"github.com/Emmanuel3dev/market-server/internal/gateway/push"
	"github.com/Emmanuel3dev/market-server/internal/http/pprofserver"
	"github.com/Emmanuel3dev/market-server/internal/repository"
)

// MustRun starts the HTTP server using the provided DI container
func MustRun(container *dig.Container) {
	if err := run(container); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			log.Println("shutdown requested, exiting")
			return
		case errors.Is(err, context.DeadlineExceeded):
			log.Println("startup aborted: startup timeout exceeded")
			return
		default:
			log.Fatalf("run error: %v", err)
		}
	}
}

func run(container *dig.Container) error {
	return container.Invoke(func(
		server *http.Server,
		ctx context.Context,
		cfg *config.Config,
		pool *pgxpool.Pool,
		counters *repository.CounterStore,
		delayed *push.DelayedSender,
		logger *log.Logger,
	) error {
		pprof := startPprof(cfg, logger)
		startServer(server, logger)
		waitForShutdown(ctx, logger)
		gracefulShutdown(server, logger, 15*time.Second)
		closeResources(server, pprof, pool, counters, delayed, logger)
		return nil
	})
}

func startServer(server *http.Server, logger *log.Logger) {
	go func() {
		logger.Printf("service-market listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen error: %v", err)
		}
	}()
}

func startPprof(cfg *config.Config, logger *log.Logger) *http.Server {
	if !cfg.Pprof.Enabled {
		return nil
	}
	srv := &http.Server{
		Addr:              cfg.Pprof.Addr,
		Handler:           pprofserver.Handler(pprofserver.Config{User: cfg.Pprof.User, Pass: cfg.Pprof.Pass}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Printf("pprof listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Printf("pprof listen error: %v", err)
		}
	}()
	return srv
}

func waitForShutdown(ctx context.Context, logger *log.Logger) {
	<-ctx.Done()
	logger.Println("shutting down service-market...")
}

func gracefulShutdown(srv *http.Server, logger *log.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
}

func closeResources(
	server *http.Server,
	pprof *http.Server,
	pool *pgxpool.Pool,
	counters *repository.CounterStore,
	delayed *push.DelayedSender,
	logger *log.Logger,
) {
	if err := server.Close(); err != nil {
		logger.Printf("server close error: %v", err)
	}
	if pprof != nil {
		if err := pprof.Close(); err != nil {
			logger.Printf("pprof close error: %v", err)
		}
	}
	delayed.Stop()
	if err := counters.Close(); err != nil {
		logger.Printf("counter store close error: %v", err)
	}
	pool.Close()
}
