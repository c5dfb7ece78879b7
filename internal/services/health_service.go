package services

import (
	"context"
	"time"

	"wardrivecli/pkg/contracts"
)

// HealthService reports process liveness for the results API.
type HealthService struct {
	startedAt time.Time
}

// NewHealthService creates a health service.
func NewHealthService() *HealthService {
	return &HealthService{startedAt: time.Now()}
}

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// HealthCheck reports the service as healthy with its uptime.
func (s *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:        "healthy",
		Version:       contracts.Version,
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
	}
}
