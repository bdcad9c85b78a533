package observability

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Final state search outcomes.
const (
	OutcomeFixedPoint = "fixed_point"
	OutcomeOscillator = "oscillator"
	OutcomeExhausted  = "exhausted"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lifegame",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lifegame",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	generationsComputed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lifegame",
			Name:      "generations_computed_total",
			Help:      "Generations applied to stored boards.",
		},
	)
	finalStateSearches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lifegame",
			Name:      "final_state_searches_total",
			Help:      "Final state searches by outcome.",
		},
		[]string{"outcome"},
	)
	boardsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lifegame",
			Name:      "boards_created_total",
			Help:      "Boards created.",
		},
	)
)

// RegisterMetrics registers the collectors with the default registry.
// Safe to call more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, generationsComputed, finalStateSearches, boardsCreated)
	})
}

// MetricsHandler serves the default registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	labels := prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}
	httpRequests.With(labels).Inc()
	httpDuration.With(labels).Observe(duration.Seconds())
}

func RecordGenerations(n int) {
	if n > 0 {
		generationsComputed.Add(float64(n))
	}
}

func RecordFinalStateSearch(outcome string) {
	finalStateSearches.WithLabelValues(outcome).Inc()
}

func RecordBoardCreated() {
	boardsCreated.Inc()
}
