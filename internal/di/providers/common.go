package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second

	// appVersion is reported in the OpenAPI document.
	appVersion = "0.1.0"
)
