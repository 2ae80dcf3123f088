package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "alertflow",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "alertflow",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "alertflow",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	sharesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "alertflow",
			Subsystem: "share",
			Name:      "created_total",
			Help:      "Total number of share links created",
		},
		[]string{"access_type"},
	)

	sharesRevoked = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "alertflow",
			Subsystem: "share",
			Name:      "revoked_total",
			Help:      "Total number of share revocations",
		},
	)

	shareAccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "alertflow",
			Subsystem: "share",
			Name:      "access_total",
			Help:      "Anonymous share link resolutions by outcome",
		},
		[]string{"result"},
	)

	exportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "alertflow",
			Subsystem: "export",
			Name:      "requests_total",
			Help:      "Total number of completed exports",
		},
		[]string{"format"},
	)

	exportedAlerts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "alertflow",
			Subsystem: "export",
			Name:      "alerts_per_export",
			Help:      "Number of alerts contained in an export",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	activityFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "alertflow",
			Subsystem: "activity",
			Name:      "write_failures_total",
			Help:      "Activity log entries that could not be written",
		},
		[]string{"activity_type"},
	)

	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "alertflow",
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "table"},
	)
)

// Share access outcomes
const (
	AccessGranted = "granted"
	AccessDenied  = "denied"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		routePattern := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			routePattern = rctx.RoutePattern()
		}

		status := strconv.Itoa(wrapped.statusCode)
		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(time.Since(start).Seconds())
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordShareCreated counts a newly created share
func RecordShareCreated(accessType string) {
	sharesCreated.WithLabelValues(accessType).Inc()
}

// RecordShareRevoked counts a revocation
func RecordShareRevoked() {
	sharesRevoked.Inc()
}

// RecordShareAccess counts an anonymous resolution attempt
func RecordShareAccess(result string) {
	shareAccess.WithLabelValues(result).Inc()
}

// RecordExport counts a completed export and its size
func RecordExport(format string, count int) {
	exportsTotal.WithLabelValues(format).Inc()
	exportedAlerts.Observe(float64(count))
}

// RecordActivityFailure counts a dropped activity log entry
func RecordActivityFailure(activityType string) {
	activityFailures.WithLabelValues(activityType).Inc()
}

// RecordDBQuery records a database query duration
func RecordDBQuery(operation, table string, start time.Time) {
	dbQueryDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}
