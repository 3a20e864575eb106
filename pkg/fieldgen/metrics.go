package fieldgen

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// parseTotal counts formula parses by result
	parseTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldgen_parse_total",
		Help: "Total formula parses by result",
	}, []string{"result"})

	// samplePoints counts grid points evaluated by Sample
	samplePoints = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldgen_sample_points_total",
		Help: "Total grid points evaluated",
	})

	// sampleDuration tracks how long a whole grid takes
	sampleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fieldgen_sample_duration_seconds",
		Help:    "Grid sampling duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
	})
)
