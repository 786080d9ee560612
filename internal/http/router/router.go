package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Emmanuel3dev/market-server/internal/http/handlers"
	custommw "github.com/Emmanuel3dev/market-server/internal/http/middleware"
	"github.com/Emmanuel3dev/market-server/internal/http/middleware/ratelimit"
	"github.com/Emmanuel3dev/market-server/internal/logx"
)

// New constructs a chi-based http.Handler with base middleware and routes.
func New(
	h *handlers.Handlers,
	dispatch *handlers.DispatchHandler,
	courier *handlers.CourierHandler,
	logger logx.Logger,
	rl *ratelimit.Middleware,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))
	r.Use(custommw.Observability(logger))
	if rl != nil {
		r.Use(rl.Handler())
	}

	r.Get("/ping", h.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(h.HealthcheckHead))
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/assign-delivery", dispatch.Assign)

	r.Route("/courier", func(r chi.Router) {
		r.Post("/", courier.Create)
		r.Put("/", courier.Update)
		r.Get("/{id}", courier.GetByID)
		r.Post("/{id}/release", courier.Release)
	})
	r.Get("/couriers", courier.List)

	r.NotFound(http.HandlerFunc(h.NotFound))

	return r
}
