package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultHit     = "hit"
	resultMiss    = "miss"
	resultExpired = "expired"
)

// RequestsTotal counts cache lookups by cache name and result.
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "newsboard",
		Name:      "cache_requests_total",
		Help:      "Total number of cache lookups",
	},
	[]string{"cache", "result"},
)

func recordRequest(name, result string) {
	RequestsTotal.WithLabelValues(name, result).Inc()
}
