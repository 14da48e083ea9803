package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GoalOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goal_operations_total",
			Help: "Total number of goal operations by type and outcome",
		},
		[]string{"operation", "outcome"},
	)

	GoalCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "goal_cache_hits_total",
			Help: "Total number of goal list cache hits",
		},
	)

	GoalCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "goal_cache_misses_total",
			Help: "Total number of goal list cache misses",
		},
	)
)
