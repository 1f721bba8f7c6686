// AngelaMos | 2026
// metrics.go

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route", "status_code"},
	)

	GuardDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guard_decisions_total",
			Help:      "Route guard outcomes by guard and final state",
		},
		[]string{"guard", "state"},
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Backend API call duration in seconds",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 20},
		},
		[]string{"method", "status"},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter by endpoint",
		},
		[]string{"endpoint"},
	)

	ForcedLogouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "forced_logouts_total",
			Help:      "Sessions cleared because the backend answered 401",
		},
	)
)

func RecordGuardDecision(guard, state string) {
	GuardDecisions.WithLabelValues(guard, state).Inc()
}

func RecordGatewayRequest(method, status string, d time.Duration) {
	GatewayRequestDuration.WithLabelValues(method, status).Observe(d.Seconds())
}

func RecordForcedLogout() {
	ForcedLogouts.Inc()
}

func RecordRateLimited(endpoint string) {
	RateLimited.WithLabelValues(endpoint).Inc()
}
