// Package leads provides the lead management bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"lead_crm_backend/internal/events"
	apphttp "lead_crm_backend/internal/http"
	"lead_crm_backend/internal/leads/domain"
	"lead_crm_backend/internal/leads/handler"
	"lead_crm_backend/internal/leads/management"
	"lead_crm_backend/internal/leads/query"
	"lead_crm_backend/internal/leads/repository"
	"lead_crm_backend/platform/config"
	"lead_crm_backend/platform/logger"
	"lead_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates the leads module on top of repo. The shared validator
// gets the lead-specific rules registered on it.
func NewModule(repo management.Repository, eventBus events.Bus, val *validator.Validator, cfg config.LeadsConfig, log *logger.Logger) (*Module, error) {
	leadValidator, err := domain.NewValidator(val)
	if err != nil {
		return nil, err
	}

	mgmtSvc := management.New(repo, leadValidator, eventBus, log)
	querySvc := query.New(mgmtSvc, cfg.GetLeadsMaxPageSize())
	h := handler.New(mgmtSvc, querySvc, log)

	return &Module{handler: h}, nil
}

// NewRepository returns the lead repository for the configured store.
func NewRepository(cfg config.LeadsConfig, pool *pgxpool.Pool) management.Repository {
	if cfg.GetLeadStore() == config.StoreMemory || pool == nil {
		return repository.NewMemory()
	}
	return repository.New(pool)
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// All leads routes require authentication
	leadsGroup := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(leadsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
