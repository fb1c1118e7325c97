package assistant

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeCreated    = "created"
	outcomeDuplicate  = "duplicate"
	outcomeEmpty      = "empty"
	outcomeParseError = "parse_error"
	outcomeFailed     = "failed"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsboard",
			Name:      "assistant_requests_total",
			Help:      "Total number of assistant prompts by outcome",
		},
		[]string{"outcome"},
	)

	RequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "newsboard",
			Name:      "assistant_request_duration_seconds",
			Help:      "Time from prompt submission to outcome",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
		},
	)
)
