package web

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	solvesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invariant_solver_solves_total",
			Help: "Total solver invocations by kind and outcome status.",
		},
		[]string{"kind", "status"},
	)

	solveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "invariant_solver_solve_duration_seconds",
			Help:    "Wall-clock duration of solver invocations.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		},
		[]string{"kind"},
	)
)

func observeSolve(kind, status string, duration time.Duration) {
	solvesTotal.WithLabelValues(kind, status).Inc()
	solveDuration.WithLabelValues(kind).Observe(duration.Seconds())
}
