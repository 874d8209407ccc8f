// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PlatformCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workbench_platform_calls_total",
			Help: "Total number of managed-service API calls",
		},
		[]string{"service", "operation"},
	)

	PlatformCallErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workbench_platform_call_errors_total",
			Help: "Total number of failed managed-service API calls",
		},
		[]string{"service", "operation", "error_code"},
	)

	PlatformCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "workbench_platform_call_duration_seconds",
			Help: "Duration of managed-service API calls in seconds",
		},
		[]string{"service", "operation"},
	)

	TokensConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workbench_tokens_consumed_total",
			Help: "Input/output tokens reported by generation calls",
		},
		[]string{"model", "direction"},
	)

	PollCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workbench_poll_cycles_total",
			Help: "Status poll cycles spent waiting on remote jobs",
		},
		[]string{"job_type"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workbench_retrieval_cache_hits_total",
			Help: "Retrieval cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)
