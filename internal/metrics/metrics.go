package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Conversion metrics
var (
	ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_picker_conversions_total",
			Help: "Total number of attachment conversions",
		},
		[]string{"kind", "status"},
	)

	ConversionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_picker_conversion_duration_seconds",
			Help:    "Attachment conversion duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"kind"},
	)

	BatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_picker_conversion_batches_total",
			Help: "Total number of batch conversions (all-or-nothing joins)",
		},
		[]string{"status"},
	)
)

// Thumbnail metrics
var (
	ThumbnailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_picker_thumbnails_total",
			Help: "Total number of thumbnail requests",
		},
		[]string{"source", "status"},
	)

	ThumbnailDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photo_picker_thumbnail_duration_seconds",
			Help:    "Thumbnail generation duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)
)

// Library metrics
var (
	ChangeNotificationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_picker_change_notifications_total",
			Help: "Total number of library-changed events fanned out to observers",
		},
	)

	ObserversGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_picker_change_observers",
			Help: "Number of currently subscribed change observers",
		},
	)

	IndexRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_picker_index_runs_total",
			Help: "Total number of library index scans",
		},
		[]string{"status"},
	)

	AssetsIndexed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_picker_assets_indexed",
			Help: "Number of assets in the library index after the last scan",
		},
	)
)

// HTTP metrics for the demo surface
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_picker_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_picker_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// StatusLabel converts an error presence into the conventional label value.
func StatusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
