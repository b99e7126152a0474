// Package management is the lead store. It enforces the lead invariants on
// top of a repository and publishes an event after every mutation.
package management

import (
	"context"
	"errors"

	"lead_crm_backend/internal/events"
	"lead_crm_backend/internal/leads/domain"
	"lead_crm_backend/internal/leads/repository"
	"lead_crm_backend/platform/apperr"
	"lead_crm_backend/platform/logger"

	"github.com/google/uuid"
)

const msgLeadNotFound = "lead not found"

// Repository defines the data access interface needed by the management service.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
}

// Service handles lead management operations (CRUD and query).
type Service struct {
	repo      Repository
	validator *domain.Validator
	bus       events.Bus
	log       *logger.Logger
	newID     func() uuid.UUID
}

// New creates a new lead management service. bus may be nil.
func New(repo Repository, validator *domain.Validator, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		bus:       bus,
		log:       log,
		newID:     uuid.New,
	}
}

// Create validates fields, applies the status and source defaults and stores
// a new active lead. Nothing is stored when validation fails.
func (s *Service) Create(ctx context.Context, draft domain.Draft) (domain.Lead, error) {
	fields := draft.Fields()
	if err := s.validator.Validate(fields); err != nil {
		return domain.Lead{}, err
	}

	lead, err := s.repo.Create(ctx, repository.CreateParams{ID: s.newID(), Fields: fields})
	if err != nil {
		return domain.Lead{}, s.storageError(ctx, "leads.Create", err)
	}

	recordMutation("create")
	s.publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		Name:      lead.Name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Status:    string(lead.Status),
		Source:    string(lead.Source),
	})
	return lead, nil
}

// GetByID returns the active lead with the given id.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Lead{}, s.translate(ctx, "leads.GetByID", err)
	}
	return lead, nil
}

// Update merges patch into the active lead, validates the result and stores
// it. The id, creation time and active flag never change.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch domain.Patch) (domain.Lead, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Lead{}, s.translate(ctx, "leads.Update", err)
	}

	merged := patch.Apply(current.Fields())
	if err := s.validator.Validate(merged); err != nil {
		return domain.Lead{}, err
	}

	lead, err := s.repo.Update(ctx, id, merged)
	if err != nil {
		return domain.Lead{}, s.translate(ctx, "leads.Update", err)
	}

	recordMutation("update")
	s.publish(ctx, events.LeadUpdated{
		BaseEvent:     events.NewBaseEvent(),
		LeadID:        lead.ID,
		Status:        string(lead.Status),
		ChangedFields: patch.ChangedFields(),
	})
	return lead, nil
}

// SoftDelete marks the active lead as inactive. Afterwards every operation
// treats the id as unknown.
func (s *Service) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return s.translate(ctx, "leads.SoftDelete", err)
	}

	recordMutation("delete")
	s.publish(ctx, events.LeadDeleted{BaseEvent: events.NewBaseEvent(), LeadID: id})
	return nil
}

// Query returns one window of matching active leads, newest first, and the
// total match count.
func (s *Service) Query(ctx context.Context, filter domain.Filter, window domain.Window) ([]domain.Lead, int, error) {
	items, total, err := s.repo.Query(ctx, filter, window)
	if err != nil {
		return nil, 0, s.storageError(ctx, "leads.Query", err)
	}
	return items, total, nil
}

func (s *Service) translate(ctx context.Context, op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(msgLeadNotFound).WithOp(op)
	}
	return s.storageError(ctx, op, err)
}

func (s *Service) storageError(ctx context.Context, op string, err error) error {
	if s.log != nil {
		s.log.WithContext(ctx).DatabaseError(op, err)
	}
	return apperr.Storage(op, err)
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, event)
}
