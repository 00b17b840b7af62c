// Package metrics exposes Prometheus instrumentation for simulation runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the simulator's Prometheus metrics. It owns its own
// prometheus.Registry so several instances can coexist in tests.
type Registry struct {
	registry *prometheus.Registry

	Runs           *prometheus.CounterVec
	Periods        prometheus.Counter
	PeriodDuration prometheus.Histogram
	Rebalances     prometheus.Counter
	Liquidations   prometheus.Counter
}

// New creates and registers every metric
func New() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cppi_runs_total",
				Help: "Total number of simulation runs by outcome",
			},
			[]string{"status"},
		),

		Periods: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cppi_periods_total",
				Help: "Total number of periods simulated",
			},
		),

		PeriodDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cppi_period_duration_seconds",
				Help:    "Wall time spent simulating one period",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
		),

		Rebalances: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cppi_rebalances_total",
				Help: "Total number of rebalance days across simulated periods",
			},
		),

		Liquidations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cppi_liquidations_total",
				Help: "Total number of held risky positions lost to forced liquidation",
			},
		),
	}

	r.registry.MustRegister(r.Runs, r.Periods, r.PeriodDuration, r.Rebalances, r.Liquidations)
	return r
}

// ObservePeriod records one simulated period
func (r *Registry) ObservePeriod(d time.Duration, rebalances, liquidations int) {
	r.Periods.Inc()
	r.PeriodDuration.Observe(d.Seconds())
	r.Rebalances.Add(float64(rebalances))
	r.Liquidations.Add(float64(liquidations))
}

// ObserveRun records the outcome of a whole run
func (r *Registry) ObserveRun(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.Runs.WithLabelValues(status).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
