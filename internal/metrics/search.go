package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moviedex",
			Name:      "searches_total",
			Help:      "Total number of search requests by outcome",
		},
		[]string{"outcome"}, // "ok" / "error"
	)

	EngineDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "moviedex",
			Name:      "engine_request_duration_seconds",
			Help:      "Search engine aggregation round-trip duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moviedex",
			Name:      "search_cache_total",
			Help:      "Search response cache hits, misses, and errors",
		},
		[]string{"result"}, // "hit" / "miss" / "error"
	)
)

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(EngineDuration)
	prometheus.MustRegister(SearchCacheTotal)
}
