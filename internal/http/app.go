package http

import (
	"context"

	"lead_crm_backend/internal/events"
	"lead_crm_backend/platform/config"
	"lead_crm_backend/platform/httpkit"
	"lead_crm_backend/platform/logger"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthCheckFunc adapts a plain function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) error

// Ping implements HealthChecker.
func (f HealthCheckFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP and JWT settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health maps a dependency name to its readiness check. Every entry must
	// answer for /api/ready to report ready.
	Health map[string]HealthChecker
	// AuthLimiter backs the rate limit on auth routes. Nil means an in-memory
	// per-IP limiter sized from Config.
	AuthLimiter httpkit.Limiter
	// EventBus is the domain event bus for cross-module communication.
	EventBus events.Bus
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
