// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file exposes Prometheus instrumentation for HTTP traffic plus a few
// appliance-level collectors (uploads, downloads, captive probes). The HTTP
// labels are kept low-cardinality:
//
//   - method: HTTP method verb (GET/POST/…)
//   - path:   the registered Gin route (e.g. /api/forum/threads/:id);
//     falls back to the raw URL path when no route matched
//   - status: numeric status code as a string (e.g. "200", "404")
//
// All collectors are safe for concurrent use.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// httpReqs counts requests by method, route path, and status code.
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// httpLat records request duration in seconds by method and route path.
	// Status is omitted to keep latency histogram cardinality lower.
	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// httpInflight gauges the number of in-flight requests.
	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	// uploadBytes captures accepted upload sizes. Buckets cover the range
	// from a text note to a feature film.
	uploadBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "piratebox_upload_size_bytes",
			Help: "Size of accepted file uploads in bytes.",
			Buckets: []float64{
				1 << 10, 10 << 10, 100 << 10, // 1..100KiB
				1 << 20, 10 << 20, 50 << 20, // 1..50MiB
				100 << 20, 250 << 20, 500 << 20, // 100..500MiB
				1 << 30, // 1GiB
			},
		},
	)

	// uploadRejects counts refused uploads by reason.
	uploadRejects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "piratebox_upload_rejects_total",
			Help: "Total number of rejected file uploads.",
		},
		[]string{"reason"},
	)

	// downloads counts served file downloads.
	downloads = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "piratebox_downloads_total",
			Help: "Total number of file downloads served.",
		},
	)

	// captiveProbes counts OS connectivity probes by acknowledgement state.
	captiveProbes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "piratebox_captive_probes_total",
			Help: "Total number of captive-portal probe requests.",
		},
		[]string{"acknowledged"},
	)
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, httpInflight,
		uploadBytes, uploadRejects, downloads, captiveProbes)
}

// Metrics returns a Gin middleware that instruments requests with Prometheus.
//
// Semantics:
//   - Increments http_requests_total(method, path, status) per request
//   - Observes http_request_duration_seconds(method, path) on completion
//   - Tracks http_requests_inflight gauge during handler execution
//
// The "path" label uses the registered route (c.FullPath()) to avoid
// unbounded label cardinality from raw URLs. If no route matched (e.g. a
// captive probe handled by NoRoute), it falls back to c.Request.URL.Path,
// which is safe here because the probe table is a fixed set.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		c.Next()

		dur := time.Since(start).Seconds()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		httpReqs.WithLabelValues(method, path, status).Inc()
		httpLat.WithLabelValues(method, path).Observe(dur)
	}
}

// RecordUpload observes an accepted upload of the given size.
func RecordUpload(sizeBytes int64) {
	uploadBytes.Observe(float64(sizeBytes))
}

// RecordUploadReject counts a refused upload. Reason should be one of a
// small fixed set ("too_large", "invalid_name", "read_error").
func RecordUploadReject(reason string) {
	uploadRejects.WithLabelValues(reason).Inc()
}

// RecordDownload counts one served file download.
func RecordDownload() {
	downloads.Inc()
}

// RecordCaptiveProbe counts one OS connectivity probe.
func RecordCaptiveProbe(acknowledged bool) {
	captiveProbes.WithLabelValues(strconv.FormatBool(acknowledged)).Inc()
}
