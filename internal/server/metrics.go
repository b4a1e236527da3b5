package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chartRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "city_budget",
			Subsystem: "chart",
			Name:      "requests_total",
			Help:      "Total number of chart queries by chart and response status",
		},
		[]string{"chart", "status"},
	)

	chartQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "city_budget",
			Subsystem: "chart",
			Name:      "query_duration_seconds",
			Help:      "Chart query duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"chart"},
	)
)

func observeQuery(chart string, status int, elapsed time.Duration) {
	chartRequestsTotal.WithLabelValues(chart, strconv.Itoa(status)).Inc()
	chartQueryDuration.WithLabelValues(chart).Observe(elapsed.Seconds())
}
