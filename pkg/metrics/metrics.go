// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// SearchDuration tracks AI search duration by modality and backend.
	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_duration_seconds",
			Help:    "AI search duration in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"search_type", "source", "status"},
	)

	// SearchesTotal tracks total AI searches.
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "searches_total",
			Help: "Total AI searches",
		},
		[]string{"search_type", "source", "status"},
	)

	// AlertsTotal tracks alerts emitted by the analytics aggregator.
	AlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_alerts_total",
			Help: "Alerts emitted by the analytics aggregator",
		},
		[]string{"kind"},
	)

	// TelemetryDeliveries tracks successful telemetry sink deliveries.
	TelemetryDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_deliveries_total",
			Help: "Successful telemetry sink deliveries",
		},
		[]string{"sink"},
	)

	// TelemetryFailures tracks failed telemetry sink deliveries.
	TelemetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_failures_total",
			Help: "Failed telemetry sink deliveries",
		},
		[]string{"sink"},
	)

	// SSEConnectionsActive tracks active analytics SSE connections.
	SSEConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_connections_active",
			Help: "Number of active SSE connections",
		},
	)

	// DocumentOperations tracks document store operations.
	DocumentOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_operations_total",
			Help: "Document store operations",
		},
		[]string{"operation", "collection", "status"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordSearch records metrics for an AI search.
func RecordSearch(searchType, source, status string, duration float64) {
	SearchDuration.WithLabelValues(searchType, source, status).Observe(duration)
	SearchesTotal.WithLabelValues(searchType, source, status).Inc()
}

// IncrementSSEConnections increments the active SSE connection count.
func IncrementSSEConnections() {
	SSEConnectionsActive.Inc()
}

// DecrementSSEConnections decrements the active SSE connection count.
func DecrementSSEConnections() {
	SSEConnectionsActive.Dec()
}
