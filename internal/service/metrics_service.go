package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the report
// engine. All observer methods are nil-safe so metrics can be disabled by
// wiring a nil service.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	reportsSaved    *prometheus.CounterVec
	reportsRendered *prometheus.CounterVec
	reportsSent     prometheus.Counter
	rsvpUnclassified prometheus.Counter
}

// NewMetricsService registers the engine's Prometheus collectors.
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

	reportsSaved := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "event_reports_saved_total",
		Help: "Event report upserts, partitioned by created vs updated",
	}, []string{"action"})

	reportsRendered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "event_reports_rendered_total",
		Help: "Rendered report documents by backend",
	}, []string{"backend"})

	reportsSent := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "event_reports_sent_total",
		Help: "Report documents distributed to recipients",
	})

	rsvpUnclassified := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rsvp_unclassified_total",
		Help: "RSVP rows whose status fell outside the accepted vocabulary",
	})

	registry.MustRegister(requestDuration, requestTotal, reportsSaved, reportsRendered, reportsSent, rsvpUnclassified)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		reportsSaved:     reportsSaved,
		reportsRendered:  reportsRendered,
		reportsSent:      reportsSent,
		rsvpUnclassified: rsvpUnclassified,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one completed request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, code).Inc()
}

// ReportSaved counts an upsert by its outcome ("created" or "updated").
func (m *MetricsService) ReportSaved(action string) {
	if m == nil {
		return
	}
	m.reportsSaved.WithLabelValues(action).Inc()
}

// ReportRendered counts a rendered document by backend ("pdf" or "html").
func (m *MetricsService) ReportRendered(backend string) {
	if m == nil {
		return
	}
	m.reportsRendered.WithLabelValues(backend).Inc()
}

// ReportSent counts a distributed document.
func (m *MetricsService) ReportSent() {
	if m == nil {
		return
	}
	m.reportsSent.Inc()
}

// RSVPUnclassified counts RSVP rows excluded from aggregation because their
// raw status was not recognized.
func (m *MetricsService) RSVPUnclassified(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rsvpUnclassified.Add(float64(n))
}
