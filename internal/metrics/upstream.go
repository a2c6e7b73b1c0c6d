package metrics

import "github.com/prometheus/client_golang/prometheus"

// Upstream search and suggest cache Prometheus metrics.
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geosuggest",
			Name:      "upstream_requests_total",
			Help:      "Total number of upstream search requests",
		},
		[]string{"status"}, // "ok" / "empty" / "rate_limited" / "error"
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "geosuggest",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream search request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"status"},
	)

	UpstreamLimiterWait = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "geosuggest",
			Name:      "upstream_limiter_wait_seconds",
			Help:      "Time spent waiting for the upstream rate limiter",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	SuggestCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geosuggest",
			Name:      "suggest_cache_total",
			Help:      "Suggest cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss" / "error"
	)

	SuggestMatchesReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "geosuggest",
			Name:      "suggest_matches_returned",
			Help:      "Number of matches returned per answered query",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 25},
		},
	)
)

var suggestMetricsRegistered bool

// RegisterSuggestMetrics registers upstream and suggest cache metrics. Must be called once from main.
func RegisterSuggestMetrics() {
	if suggestMetricsRegistered {
		return
	}
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamRequestDuration)
	prometheus.MustRegister(UpstreamLimiterWait)
	prometheus.MustRegister(SuggestCacheTotal)
	prometheus.MustRegister(SuggestMatchesReturned)
	suggestMetricsRegistered = true
}
