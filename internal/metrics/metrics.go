// Package metrics exposes the service's Prometheus collectors plus the HTTP
// middleware and scrape handler that go with them. All metrics live under the
// medlock namespace.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts total HTTP requests by method, route, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medlock",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route, and status code",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "medlock",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	// HTTPRequestsInFlight tracks current in-flight requests
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "medlock",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)
)

var (
	// LoginAttempts counts login attempts by outcome
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medlock",
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)

	// MFAVerifications counts second-factor verifications by method and outcome
	MFAVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medlock",
			Subsystem: "auth",
			Name:      "mfa_verifications_total",
			Help:      "Total number of MFA verifications by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	// AccountLockouts counts accounts locked after repeated failures
	AccountLockouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "medlock",
			Subsystem: "auth",
			Name:      "account_lockouts_total",
			Help:      "Total number of accounts locked after repeated failed logins",
		},
	)
)

var (
	// SessionsIssued counts sessions created by successful authentications
	SessionsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "medlock",
			Subsystem: "session",
			Name:      "issued_total",
			Help:      "Total number of sessions issued",
		},
	)

	// SessionsRevoked counts sessions revoked by reason
	SessionsRevoked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medlock",
			Subsystem: "session",
			Name:      "revoked_total",
			Help:      "Total number of sessions revoked by reason",
		},
		[]string{"reason"},
	)
)

var (
	// AuditEntriesAppended counts audit log entries by action
	AuditEntriesAppended = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medlock",
			Subsystem: "audit",
			Name:      "entries_appended_total",
			Help:      "Total number of audit entries appended by action",
		},
		[]string{"action"},
	)

	// AuditChainVerifications counts chain verification runs by result
	AuditChainVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medlock",
			Subsystem: "audit",
			Name:      "chain_verifications_total",
			Help:      "Total number of audit chain verifications by result",
		},
		[]string{"result"},
	)
)

var (
	// HousekeepingSweeps counts completed housekeeping sweeps
	HousekeepingSweeps = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "medlock",
			Subsystem: "housekeeping",
			Name:      "sweeps_total",
			Help:      "Total number of completed housekeeping sweeps",
		},
	)

	// HousekeepingSweepDuration measures housekeeping sweep duration in seconds
	HousekeepingSweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "medlock",
			Subsystem: "housekeeping",
			Name:      "sweep_duration_seconds",
			Help:      "Housekeeping sweep duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	// HousekeepingRowsSwept counts rows expired by housekeeping, by kind
	HousekeepingRowsSwept = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medlock",
			Subsystem: "housekeeping",
			Name:      "rows_swept_total",
			Help:      "Total number of rows expired by housekeeping sweeps, by kind",
		},
		[]string{"kind"},
	)
)

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

// WriteHeader captures the status code
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// HTTPMiddleware records request counts, durations, and in-flight gauges.
// Route labels use r.Pattern, the mux pattern that matched, so cardinality
// stays bounded; unmatched requests fall back to the raw path.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		route := r.Pattern
		if route == "" {
			route = r.URL.Path
		}

		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler returns the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
