// Package http holds the server-side composition types: the Module contract
// and the App bundle the router is built from.
package http

import (
	"context"

	"qc_portal_backend/platform/config"
	"qc_portal_backend/platform/logger"
)

// RouterConfig narrows the full Config to what the router actually reads.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker backs the readiness endpoint, typically a pool ping.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App is assembled in main and handed to router.New. It carries no behavior
// of its own.
type App struct {
	Config  RouterConfig
	Logger  *logger.Logger
	Health  HealthChecker
	Modules []Module
}
