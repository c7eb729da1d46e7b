// Package metrics registers the application's Prometheus collectors on the
// default registry, which the router exposes at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gallery ingestion outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

var (
	// GalleryFiles counts gallery upload files by outcome: accepted,
	// rejected (validation) or failed (storage/database).
	GalleryFiles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marianconnect",
		Name:      "gallery_files_total",
		Help:      "Gallery upload files processed, by outcome.",
	}, []string{"outcome"})

	// ThumbnailFailures counts uploads stored without a thumbnail.
	ThumbnailFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "marianconnect",
		Name:      "thumbnail_failures_total",
		Help:      "Thumbnails that could not be generated.",
	})

	// HTTPRequests counts served requests by method and status class (2xx, 4xx...).
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marianconnect",
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by method and status class.",
	}, []string{"method", "class"})

	// PanicsRecovered counts handler panics turned into 500 responses.
	PanicsRecovered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "marianconnect",
		Name:      "panics_recovered_total",
		Help:      "Handler panics recovered by middleware.",
	})

	// StagingSwept counts abandoned staged files removed by the sweeper.
	StagingSwept = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "marianconnect",
		Name:      "staging_files_swept_total",
		Help:      "Abandoned staged upload files removed.",
	})
)

// StatusClass maps an HTTP status code to its class label.
func StatusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
