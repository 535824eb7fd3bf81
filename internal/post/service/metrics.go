package service

import (
	"github.com/AlibekovAA/blog-api/internal/observability/metrics"
)

func recordOperation(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.PostOperationsTotal.WithLabelValues(operation, outcome).Inc()
}
