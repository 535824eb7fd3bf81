package service

import (
	"github.com/AlibekovAA/blog-api/internal/observability/metrics"
)

func recordRegistration(outcome string) {
	metrics.RegistrationsTotal.WithLabelValues(outcome).Inc()
}

func recordLogin(outcome string) {
	metrics.LoginsTotal.WithLabelValues(outcome).Inc()
}

func incrementAccessTokensIssued() {
	metrics.AccessTokensIssued.Inc()
}
