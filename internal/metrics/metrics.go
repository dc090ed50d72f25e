package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/crucial707/listing-admin/internal/models"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// StatusTransitions counts committed listing status transitions by target status.
	StatusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_status_transitions_total",
			Help: "Total number of listing status transitions by new status",
		},
		[]string{"status"},
	)

	// ListingsByStatus is the moderation backlog, refreshed periodically.
	ListingsByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "listings_by_status",
			Help: "Number of listings in each moderation status",
		},
		[]string{"status"},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, StatusTransitions, ListingsByStatus)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /listings/123 -> /listings/{id}, /listings/7/status -> /listings/{id}/status.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncStatusTransition counts one committed transition to status.
func IncStatusTransition(status models.ListingStatus) {
	StatusTransitions.WithLabelValues(string(status)).Inc()
}

// SetListingsByStatus replaces the backlog gauge values.
func SetListingsByStatus(counts map[models.ListingStatus]int) {
	for status, n := range counts {
		ListingsByStatus.WithLabelValues(string(status)).Set(float64(n))
	}
}
