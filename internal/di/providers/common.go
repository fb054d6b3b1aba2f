package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second

	// API-wide per-client rate limit.
	apiRequestsPerSecond = 20.0
	apiBurst             = 40
)
