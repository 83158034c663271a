// Package metrics collects Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth event names
const (
	EventSignup = "signup"
	EventLogin  = "login"
	EventLogout = "logout"
)

// Auth event results
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultError   = "error"
)

// Recorder is what handlers and middleware report to.
type Recorder interface {
	RecordAuthEvent(event, result string)
	RecordTaskOperation(operation, result string)
	RecordHTTPRequest(method, route string, statusCode int, duration time.Duration)
}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	authEvents      *prometheus.CounterVec
	taskOperations  *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	registry        prometheus.Gatherer
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg *prometheus.Registry) *Collector {
	c := &Collector{
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todo_auth_events_total",
			Help: "Authentication events by type and result.",
		}, []string{"event", "result"}),
		taskOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todo_task_operations_total",
			Help: "Task operations by type and result.",
		}, []string{"operation", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todo_http_requests_total",
			Help: "HTTP responses by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "todo_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		registry: reg,
	}

	reg.MustRegister(
		c.authEvents,
		c.taskOperations,
		c.httpRequests,
		c.requestDuration,
	)

	return c
}

// RecordAuthEvent counts a signup, login or logout outcome.
func (c *Collector) RecordAuthEvent(event, result string) {
	c.authEvents.WithLabelValues(event, result).Inc()
}

// RecordTaskOperation counts a task operation outcome.
func (c *Collector) RecordTaskOperation(operation, result string) {
	c.taskOperations.WithLabelValues(operation, result).Inc()
}

// RecordHTTPRequest records status and latency of one request.
func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Middleware records every request handled by gin. Unmatched routes are
// grouped under "unmatched" to keep label cardinality bounded.
func Middleware(rec Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		rec.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// Nop discards everything. Handlers built without metrics use it.
type Nop struct{}

func (Nop) RecordAuthEvent(event, result string) {}
func (Nop) RecordTaskOperation(operation, result string) {}
func (Nop) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {}

var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = Nop{}
)
