package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewGatewayRetriesTotal returns a Prometheus counter for the number of retry attempts performed by the push gateway
func NewGatewayRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_retries_total",
		Help: "Total number of retry attempts performed by the push gateway",
	})
}

// NewDeliveriesAssignedTotal returns a Prometheus counter for completed courier assignments
func NewDeliveriesAssignedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deliveries_assigned_total",
		Help: "Total number of deliveries matched to a courier",
	})
}

// NewDispatchFailuresTotal returns a Prometheus counter for assignment requests that found no courier
func NewDispatchFailuresTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_failures_total",
		Help: "Total number of assignment requests rejected for lack of an eligible courier",
	})
}

// NewMaintenanceJobErrorsTotal returns a Prometheus counter for failed maintenance job runs
func NewMaintenanceJobErrorsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "maintenance_job_errors_total",
		Help: "Total number of maintenance job runs that ended in error",
	})
}
