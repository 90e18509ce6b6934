// Package metrics holds the Prometheus collectors for the API and the
// fiber middleware that feeds them.
package metrics

import (
	"strconv"
	"time"

	"github.com/Davidxcr/YelpCamp/internal/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of entity store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed entity store queries",
		},
		[]string{"operation"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campground_events_published_total",
			Help: "Campground activity events published to the stream",
		},
		[]string{"type"},
	)

	ExternalCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "external_calls_total",
			Help: "Calls to external services by outcome",
		},
		[]string{"service", "outcome"},
	)
)

// ObserveQuery records one store operation. Use as
//
//	defer metrics.ObserveQuery("campgrounds.list", time.Now(), &err)
func ObserveQuery(operation string, start time.Time, errp *error) {
	DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if errp != nil && *errp != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordExternal counts an outbound call to service.
func RecordExternal(service string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ExternalCalls.WithLabelValues(service, outcome).Inc()
}

// Middleware records request counts and latency keyed by the matched route
// pattern, not the raw path, to keep label cardinality bounded.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = response.StatusOf(err)
		}

		route := c.Route().Path
		HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler exposes the default registry.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
