// Package auth provides the authentication bounded context module.
// This file defines the module that encapsulates all auth setup and route registration.
package auth

import (
	"lead_crm_backend/internal/auth/handler"
	"lead_crm_backend/internal/auth/repository"
	"lead_crm_backend/internal/auth/service"
	"lead_crm_backend/internal/events"
	apphttp "lead_crm_backend/internal/http"
	"lead_crm_backend/platform/config"
	"lead_crm_backend/platform/logger"
	"lead_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(repo repository.UserRepository, cfg config.AuthServiceConfig, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repo, cfg, eventBus, log)
	h := handler.New(svc, val, log)

	return &Module{
		handler: h,
		service: svc,
	}
}

// NewRepository returns the user repository: Postgres when a pool is given,
// in memory otherwise.
func NewRepository(pool *pgxpool.Pool) repository.UserRepository {
	if pool == nil {
		return repository.NewMemory()
	}
	return repository.New(pool)
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Service returns the auth service.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public auth routes with stricter rate limiting
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimit)
	m.handler.RegisterRoutes(authGroup)

	// Protected user routes
	ctx.Protected.GET("/users/me", m.handler.GetMe)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
