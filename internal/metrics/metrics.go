// Package metrics defines Prometheus metrics for the sample graph API.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sample_graph_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sample_graph_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sample_graph_errors_total",
			Help: "Total error responses by code",
		},
		[]string{"type"},
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sample_graph_cache_lookups_total",
			Help: "Cache lookups by operation and result (hit or miss)",
		},
		[]string{"op", "result"},
	)

	UpstreamErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sample_graph_upstream_errors_total",
			Help: "Failed upstream fetches by operation",
		},
		[]string{"op"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sample_graph_upstream_request_duration_seconds",
			Help:    "Upstream song source request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "status"},
	)

	GraphBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sample_graph_graph_build_duration_seconds",
			Help:    "Graph build duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	GraphNodes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sample_graph_graph_nodes",
			Help:    "Number of nodes in built graphs",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	GraphStreams = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sample_graph_graph_streams",
			Help: "Active graph WebSocket streams",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		CacheLookups, UpstreamErrors, UpstreamRequestDuration,
		GraphBuildDuration, GraphNodes, GraphStreams,
	)
}
