// Package metrics - prometheus метрики сервиса.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpReqTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpReqDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_ms",
			Help:    "HTTP request duration in ms",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		},
		[]string{"path", "method"},
	)
)

// RecordHTTP - path должен быть шаблоном маршрута, а не сырым URL
func RecordHTTP(path, method string, status int, started time.Time) {
	httpReqDuration.WithLabelValues(path, method).Observe(float64(time.Since(started).Milliseconds()))
	httpReqTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
}
