package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the console.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	directoryDuration *prometheus.HistogramVec
	directoryTotal    *prometheus.CounterVec
	activeSessions    prometheus.Gauge
	notifications     *prometheus.CounterVec
	staleResponses    *prometheus.CounterVec
}

// NewMetricsService registers the console collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	directoryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "directory_request_duration_seconds",
		Help:    "Duration of calls to the remote directory service",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	directoryTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "directory_requests_total",
		Help: "Calls to the remote directory service by outcome status (0 = transport failure)",
	}, []string{"operation", "status"})

	activeSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "console_sessions_active",
		Help: "Console sessions started and not yet ended by this process",
	})

	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "console_notifications_total",
		Help: "Notifications emitted by kind",
	}, []string{"kind"})

	staleResponses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "console_stale_responses_total",
		Help: "Directory responses discarded because a newer query of the same kind was issued",
	}, []string{"query"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, directoryDuration, directoryTotal, activeSessions, notifications, staleResponses, goroutines)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		directoryDuration: directoryDuration,
		directoryTotal:    directoryTotal,
		activeSessions:    activeSessions,
		notifications:     notifications,
		staleResponses:    staleResponses,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records console request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveDirectoryCall records one remote directory call.
func (m *MetricsService) ObserveDirectoryCall(operation string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.directoryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	m.directoryTotal.WithLabelValues(operation, strconv.Itoa(status)).Inc()
}

// RecordNotification counts an emitted notification.
func (m *MetricsService) RecordNotification(kind string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind).Inc()
}

// RecordStaleResponse counts a discarded out-of-order response.
func (m *MetricsService) RecordStaleResponse(query string) {
	if m == nil {
		return
	}
	m.staleResponses.WithLabelValues(query).Inc()
}

// SessionStarted increments the active sessions gauge.
func (m *MetricsService) SessionStarted() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

// SessionEnded decrements the active sessions gauge.
func (m *MetricsService) SessionEnded() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}
