package transport

import (
	"time"

	"lead_crm_backend/internal/leads/domain"
	"lead_crm_backend/internal/leads/query"

	"github.com/google/uuid"
)

// CreateLeadRequest is the body of POST /leads. Status and source may be
// omitted or null.
type CreateLeadRequest struct {
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Phone  string  `json:"phone"`
	Status *string `json:"status"`
	Source *string `json:"source"`
}

// Draft converts the request into a lead draft.
func (r CreateLeadRequest) Draft() domain.Draft {
	d := domain.Draft{Name: r.Name, Email: r.Email, Phone: r.Phone}
	if r.Status != nil {
		status := domain.Status(*r.Status)
		d.Status = &status
	}
	if r.Source != nil {
		source := domain.Source(*r.Source)
		d.Source = &source
	}
	return d
}

// UpdateLeadRequest is the body of PUT /leads/:id. Omitted or null members
// are left unchanged; id, isActive and timestamps in the body are ignored.
type UpdateLeadRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	Status *string `json:"status"`
	Source *string `json:"source"`
}

// Patch converts the request into a lead patch.
func (r UpdateLeadRequest) Patch() domain.Patch {
	p := domain.Patch{Name: r.Name, Email: r.Email, Phone: r.Phone}
	if r.Status != nil {
		status := domain.Status(*r.Status)
		p.Status = &status
	}
	if r.Source != nil {
		source := domain.Source(*r.Source)
		p.Source = &source
	}
	return p
}

// ListLeadsRequest carries the raw query string of GET /leads.
type ListLeadsRequest struct {
	Page   string `form:"page"`
	Limit  string `form:"limit"`
	Search string `form:"search"`
	Status string `form:"status"`
}

type LeadResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Status    string    `json:"status"`
	Source    string    `json:"source"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	ItemCount  int            `json:"itemCount"`
	TotalCount int            `json:"totalCount"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
}

func ToLeadResponse(lead domain.Lead) LeadResponse {
	return LeadResponse{
		ID:        lead.ID,
		Name:      lead.Name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Status:    string(lead.Status),
		Source:    string(lead.Source),
		IsActive:  lead.IsActive,
		CreatedAt: lead.CreatedAt,
		UpdatedAt: lead.UpdatedAt,
	}
}

func ToLeadListResponse(env query.Envelope) LeadListResponse {
	items := make([]LeadResponse, 0, len(env.Items))
	for _, lead := range env.Items {
		items = append(items, ToLeadResponse(lead))
	}
	return LeadListResponse{
		Items:      items,
		ItemCount:  env.ItemCount,
		TotalCount: env.TotalCount,
		Page:       env.Page,
		TotalPages: env.TotalPages,
	}
}
