package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var PostOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "post_operations_total",
		Help: "Total number of post operations by operation and outcome",
	},
	[]string{"operation", "outcome"},
)
