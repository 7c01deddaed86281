// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reservo_upstream_request_total",
		Help: "Total number of reservation service HTTP request attempts",
	}, []string{"operation", "status_class"})

	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reservo_upstream_request_duration_seconds",
		Help:    "Duration of reservation service HTTP requests per attempt",
		Buckets: prometheus.ExponentialBuckets(0.05, 2.0, 8),
	}, []string{"operation", "status_class"})

	upstreamRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reservo_upstream_request_retries_total",
		Help: "Number of reservation service request retries performed",
	}, []string{"operation", "status_class"})

	upstreamErrorKinds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reservo_upstream_errors_total",
		Help: "Classified reservation service errors",
	}, []string{"operation", "kind"})
)

// StatusClass maps a transport error or HTTP status to a low-cardinality label.
func StatusClass(err error, status int) string {
	if err != nil {
		return "error"
	}
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	case status > 0:
		return "1xx"
	}
	return "unknown"
}

// RecordUpstreamAttempt records one HTTP attempt against the reservation service.
func RecordUpstreamAttempt(operation string, status int, duration time.Duration, err error, retry bool) {
	class := StatusClass(err, status)
	upstreamRequests.WithLabelValues(operation, class).Inc()
	upstreamDuration.WithLabelValues(operation, class).Observe(duration.Seconds())
	if retry {
		upstreamRetries.WithLabelValues(operation, class).Inc()
	}
}

// RecordUpstreamError records a classified reservation service error.
func RecordUpstreamError(operation, kind string) {
	upstreamErrorKinds.WithLabelValues(operation, kind).Inc()
}
