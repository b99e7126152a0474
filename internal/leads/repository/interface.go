package repository

import (
	"context"
	"errors"

	"lead_crm_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an id does not resolve to an active lead.
var ErrNotFound = errors.New("lead not found")

// CreateParams is a fully validated lead ready to insert.
type CreateParams struct {
	ID     uuid.UUID
	Fields domain.Fields
}

// LeadReader provides read-only access to active leads.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	Query(ctx context.Context, filter domain.Filter, window domain.Window) ([]domain.Lead, int, error)
}

// LeadWriter provides the mutations on active leads.
type LeadWriter interface {
	Create(ctx context.Context, params CreateParams) (domain.Lead, error)
	Update(ctx context.Context, id uuid.UUID, fields domain.Fields) (domain.Lead, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// LeadRepository is the full persistence contract of the lead store.
// Every method behaves as if inactive leads did not exist.
type LeadRepository interface {
	LeadReader
	LeadWriter
}
