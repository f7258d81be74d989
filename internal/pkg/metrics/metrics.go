// Package metrics exposes ingestion and HTTP metrics in the Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upload results used as the "result" label.
const (
	ResultSuccess         = "success"
	ResultRejected        = "rejected"
	ResultPersistenceFail = "persistence_failure"
)

// Metrics owns a private registry so tests can create as many instances as they need.
type Metrics struct {
	registry *prometheus.Registry

	uploads         *prometheus.CounterVec
	uploadRows      prometheus.Counter
	requestDuration *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gradesheet_uploads_total",
			Help: "Upload attempts by result.",
		}, []string{"result"}),
		uploadRows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gradesheet_upload_rows_total",
			Help: "Student rows persisted by successful uploads.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gradesheet_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		m.uploads,
		m.uploadRows,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveUpload counts one upload attempt. rows is only added for successful uploads.
func (m *Metrics) ObserveUpload(result string, rows int) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(result).Inc()
	if result == ResultSuccess {
		m.uploadRows.Add(float64(rows))
	}
}

// Middleware records request latency labelled by the matched route
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
