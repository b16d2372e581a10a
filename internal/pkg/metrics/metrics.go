// Package metrics provides Prometheus instrumentation for the agent.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// FetchTotal counts external lookups by source and outcome status.
	FetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "defiagent_fetch_total",
		Help: "External data fetches by source and status",
	}, []string{"source", "status"})

	// FetchDuration tracks external call latency.
	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "defiagent_fetch_duration_seconds",
		Help:    "External data fetch latency in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
	}, []string{"source"})

	// FallbackTotal counts substitutions of demo or zero-valued data.
	FallbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "defiagent_fallback_total",
		Help: "Fallback values served instead of live data",
	}, []string{"kind"})

	// CacheHits counts price cache hits by backend.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "defiagent_price_cache_hits_total",
		Help: "Price cache hits",
	}, []string{"backend"})

	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "defiagent_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "defiagent_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5, 10},
	}, []string{"method", "path"})
)

// ObserveFetch records one external call.
func ObserveFetch(source, status string, started time.Time) {
	FetchTotal.WithLabelValues(source, status).Inc()
	FetchDuration.WithLabelValues(source).Observe(time.Since(started).Seconds())
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// GinMiddleware records request metrics, labelled by route pattern.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
