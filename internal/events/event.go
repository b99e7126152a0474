// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"lead_crm_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Auth Domain Events
// =============================================================================

// UserRegistered is published when a new user account is created.
type UserRegistered struct {
	BaseEvent
	UserID uuid.UUID `json:"userId"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
}

func (e UserRegistered) EventName() string { return "auth.user.registered" }

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is stored.
type LeadCreated struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Phone  string    `json:"phone"`
	Status string    `json:"status"`
	Source string    `json:"source"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadUpdated is published after a lead's fields change.
type LeadUpdated struct {
	BaseEvent
	LeadID        uuid.UUID `json:"leadId"`
	Status        string    `json:"status"`
	ChangedFields []string  `json:"changedFields"`
}

func (e LeadUpdated) EventName() string { return "leads.lead.updated" }

// LeadDeleted is published when a lead is soft-deleted.
type LeadDeleted struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
}

func (e LeadDeleted) EventName() string { return "leads.lead.deleted" }
