package service

import (
	"time"

	"github.com/AlibekovAA/credential-service/internal/auth/domain"
	"github.com/AlibekovAA/credential-service/internal/observability/metrics"
)

func recordRegistration(outcome domain.Outcome) {
	metrics.RegistrationsTotal.WithLabelValues(outcome.String()).Inc()
}

func recordLogin(outcome domain.Outcome) {
	metrics.LoginsTotal.WithLabelValues(outcome.String()).Inc()
}

func observePasswordHash(operation string, start time.Time) {
	metrics.PasswordHashDurationSeconds.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
