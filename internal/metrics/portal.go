package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Portal API client Prometheus metrics.
var (
	PortalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "collegefinder",
			Name:      "portal_requests_total",
			Help:      "Total number of portal API requests",
		},
		[]string{"endpoint", "status"},
	)

	PortalRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "collegefinder",
			Name:      "portal_request_duration_seconds",
			Help:      "Portal API request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	StaleResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "collegefinder",
			Name:      "stale_responses_total",
			Help:      "Responses discarded because a newer request was issued",
		},
		[]string{"op"}, // "results" / "suggestions"
	)

	ShortCircuitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "collegefinder",
			Name:      "goal_short_circuits_total",
			Help:      "Result fetches skipped because the goal selection excludes colleges",
		},
	)
)

var registerOnce sync.Once

// Register registers the metrics with the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(PortalRequestsTotal)
		prometheus.MustRegister(PortalRequestDuration)
		prometheus.MustRegister(StaleResponsesTotal)
		prometheus.MustRegister(ShortCircuitsTotal)
	})
}
