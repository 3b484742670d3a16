// Package metrics registers the Prometheus collectors of the catalog
// service and a few helpers to feed them.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iliyamo/movie-catalog/internal/model"
)

var (
	// Catalog core
	CatalogOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_operations_total",
			Help: "Total number of catalog service operations by outcome",
		},
		[]string{"operation", "result"}, // result: ok, not_found, error
	)

	CatalogOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_operation_duration_seconds",
			Help:    "Duration of catalog service operations including the store transaction",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	RecommendationSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_recommendation_results",
			Help:    "Number of movies returned per recommendation query",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)

	// HTTP
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
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

	// Response cache and rate limiting
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_cache_lookups_total",
			Help: "Response cache lookups by result",
		},
		[]string{"result"}, // hit, miss
	)

	CacheInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "http_cache_invalidated_keys_total",
			Help: "Number of cached responses dropped after writes",
		},
	)

	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limit_rejections_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"backend"}, // redis, local
	)

	// Domain events
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_events_published_total",
			Help: "Domain events handed to the broker by outcome",
		},
		[]string{"type", "result"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_events_consumed_total",
			Help: "Domain events processed by the audit consumer",
		},
		[]string{"result"}, // ack, nack
	)
)

// ObserveOperation records the duration and outcome of a catalog operation.
func ObserveOperation(op string, d time.Duration, err error) {
	CatalogOperationDuration.WithLabelValues(op).Observe(d.Seconds())
	CatalogOperations.WithLabelValues(op, resultLabel(err)).Inc()
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, status int, d time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
