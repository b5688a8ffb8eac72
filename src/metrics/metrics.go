// Package metrics holds the Prometheus collectors for the CodeBros backend.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codebros_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "codebros_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Domain metrics
	ConnectionsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "codebros_connections_created_total",
			Help: "Total number of connection requests created",
		},
	)

	ConnectionTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codebros_connection_transitions_total",
			Help: "Total number of connection requests answered, by resulting status",
		},
		[]string{"status"},
	)

	MessagesSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "codebros_messages_sent_total",
			Help: "Total number of direct messages sent",
		},
	)

	MessagesMarkedRead = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "codebros_messages_marked_read_total",
			Help: "Total number of messages flagged as read",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(ConnectionsCreated)
	prometheus.MustRegister(ConnectionTransitions)
	prometheus.MustRegister(MessagesSent)
	prometheus.MustRegister(MessagesMarkedRead)
}

// Handler returns the Prometheus exposition handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures the duration of an operation.
type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration records the elapsed time on a histogram.
func (t *Timer) ObserveDuration(observer prometheus.Observer) {
	observer.Observe(t.Duration().Seconds())
}
