package service

import (
	"github.com/fitgoals/backend/internal/observability/metrics"
)

func incrementSessionTokensIssued() {
	metrics.SessionTokensIssued.Inc()
}

func incrementSignups(outcome string) {
	metrics.SignupsTotal.WithLabelValues(outcome).Inc()
}

func incrementLogins(outcome string) {
	metrics.LoginsTotal.WithLabelValues(outcome).Inc()
}
