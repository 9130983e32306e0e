package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ssargent/smbreplay/pkg/convert"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for conversions and the API
type Metrics struct {
	gatherer prometheus.Gatherer

	// Conversion metrics
	conversionsTotal   *prometheus.CounterVec
	conversionDuration *prometheus.HistogramVec
	conversionBytes    *prometheus.HistogramVec

	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Library metrics
	libraryOperationsTotal   *prometheus.CounterVec
	libraryOperationDuration *prometheus.HistogramVec
	libraryReplays           prometheus.Gauge

	authRequestsTotal *prometheus.CounterVec
	healthChecksTotal *prometheus.CounterVec
}

// NewMetrics creates all metrics and registers them with reg. When reg is
// also a Gatherer it backs Handler and WriteTextfile; otherwise the default
// gatherer is used.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	gatherer, ok := reg.(prometheus.Gatherer)
	if !ok {
		gatherer = prometheus.DefaultGatherer
	}

	m := &Metrics{
		gatherer: gatherer,

		conversionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smbreplay_conversions_total",
				Help: "Total number of replay conversions",
			},
			[]string{"from", "to", "status"},
		),

		conversionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "smbreplay_conversion_duration_seconds",
				Help:    "Replay conversion duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
			[]string{"from", "to"},
		),

		conversionBytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "smbreplay_conversion_bytes",
				Help:    "Size of conversion input and output in bytes",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
			},
			[]string{"direction"},
		),

		// HTTP request metrics
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smbreplay_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "smbreplay_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "smbreplay_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		// Library metrics
		libraryOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smbreplay_library_operations_total",
				Help: "Total number of replay library operations",
			},
			[]string{"operation", "status"},
		),

		libraryOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "smbreplay_library_operation_duration_seconds",
				Help:    "Replay library operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		libraryReplays: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "smbreplay_library_replays",
				Help: "Number of replays stored in the library",
			},
		),

		authRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smbreplay_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),

		healthChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smbreplay_health_checks_total",
				Help: "Total number of health checks",
			},
			[]string{"status"},
		),
	}

	return m
}

func statusLabel(success bool) string {
	if success {
		return statusSuccess
	}
	return statusError
}

// ObserveConversion records a finished conversion
func (m *Metrics) ObserveConversion(from, to convert.Format, inBytes, outBytes int, elapsed time.Duration, err error) {
	m.conversionsTotal.WithLabelValues(from.String(), to.String(), statusLabel(err == nil)).Inc()
	m.conversionDuration.WithLabelValues(from.String(), to.String()).Observe(elapsed.Seconds())
	m.conversionBytes.WithLabelValues("in").Observe(float64(inBytes))
	if err == nil {
		m.conversionBytes.WithLabelValues("out").Observe(float64(outBytes))
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordLibraryOperation records a library operation
func (m *Metrics) RecordLibraryOperation(operation string, success bool, duration time.Duration) {
	m.libraryOperationsTotal.WithLabelValues(operation, statusLabel(success)).Inc()
	m.libraryOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetLibraryReplays updates the stored replay gauge
func (m *Metrics) SetLibraryReplays(n int) {
	m.libraryReplays.Set(float64(n))
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	m.authRequestsTotal.WithLabelValues(statusLabel(success)).Inc()
}

// RecordHealthCheck records a health check
func (m *Metrics) RecordHealthCheck(success bool) {
	m.healthChecksTotal.WithLabelValues(statusLabel(success)).Inc()
}

// Handler serves the gathered metrics in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// WriteTextfile writes the gathered metrics to path for the node exporter
// textfile collector
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.gatherer)
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		// capture the status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// InstrumentAuthMiddleware instruments the authentication middleware
func (m *Metrics) InstrumentAuthMiddleware(next func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hasAPIKey := r.Header.Get(apiKeyHeader) != ""

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next(h).ServeHTTP(rw, r)

			if hasAPIKey {
				m.RecordAuthRequest(rw.statusCode != http.StatusUnauthorized)
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
