// Package metrics provides Prometheus metric collection.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the metric collector.
type Metrics struct {
	httpRequestsTotal        *prometheus.CounterVec
	httpRequestDuration      *prometheus.HistogramVec
	httpRequestsInFlight     prometheus.Gauge
	cacheHitsTotal           *prometheus.CounterVec
	cacheMissesTotal         *prometheus.CounterVec
	reservationsCreatedTotal *prometheus.CounterVec
	reservationsTotal        *prometheus.CounterVec
	conflictsTotal           *prometheus.CounterVec
	notificationsTotal       *prometheus.CounterVec
	remindersSentTotal       prometheus.Counter
	sweepDuration            *prometheus.HistogramVec
}

var defaultMetrics *Metrics

// Init initializes the metric collector.
func Init(namespace string) *Metrics {
	if namespace == "" {
		namespace = "reservas"
	}

	m := &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		httpRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		cacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of cache hits",
			},
			[]string{"cache"},
		),
		cacheMissesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Total number of cache misses",
			},
			[]string{"cache"},
		),
		reservationsCreatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reservations_created_total",
				Help:      "Total number of reservations created",
			},
			[]string{"source"},
		),
		reservationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reservations_total",
				Help:      "Total number of reservation status changes",
			},
			[]string{"status"},
		),
		conflictsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reservation_conflicts_total",
				Help:      "Total number of rejected reservation attempts",
			},
			[]string{"rule"},
		),
		notificationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Total number of notification deliveries",
			},
			[]string{"channel", "template", "status"},
		),
		remindersSentTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reminders_sent_total",
				Help:      "Total number of reservation reminders sent",
			},
		),
		sweepDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "sweep_duration_seconds",
				Help:      "Background sweep duration in seconds",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"task"},
		),
	}

	defaultMetrics = m
	return m
}

// GetMetrics returns the default metric collector.
func GetMetrics() *Metrics {
	if defaultMetrics == nil {
		return Init("")
	}
	return defaultMetrics
}

// Middleware returns a Gin middleware recording request metrics.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// skip the metrics endpoint itself
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		m.httpRequestsInFlight.Inc()

		c.Next()

		m.httpRequestsInFlight.Dec()
		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}

		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
	}
}

// Handler returns the Prometheus HTTP handler.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RecordCacheHit records a cache hit.
func (m *Metrics) RecordCacheHit(cache string) {
	m.cacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss records a cache miss.
func (m *Metrics) RecordCacheMiss(cache string) {
	m.cacheMissesTotal.WithLabelValues(cache).Inc()
}

// RecordReservationCreated records a created reservation by source.
func (m *Metrics) RecordReservationCreated(source string) {
	m.reservationsCreatedTotal.WithLabelValues(source).Inc()
}

// RecordReservationStatus records a reservation status change.
func (m *Metrics) RecordReservationStatus(status string) {
	m.reservationsTotal.WithLabelValues(status).Inc()
}

// RecordConflict records a rejected reservation attempt by rule.
func (m *Metrics) RecordConflict(rule string) {
	m.conflictsTotal.WithLabelValues(rule).Inc()
}

// RecordNotification records a notification delivery attempt.
func (m *Metrics) RecordNotification(channel, template, status string) {
	m.notificationsTotal.WithLabelValues(channel, template, status).Inc()
}

// RecordReminderSent records a sent reservation reminder.
func (m *Metrics) RecordReminderSent() {
	m.remindersSentTotal.Inc()
}

// RecordSweep records a background sweep run.
func (m *Metrics) RecordSweep(task string, duration time.Duration) {
	m.sweepDuration.WithLabelValues(task).Observe(duration.Seconds())
}

// RecordCacheHitGlobal records a cache hit on the default collector.
func RecordCacheHitGlobal(cache string) {
	GetMetrics().RecordCacheHit(cache)
}

// RecordCacheMissGlobal records a cache miss on the default collector.
func RecordCacheMissGlobal(cache string) {
	GetMetrics().RecordCacheMiss(cache)
}
