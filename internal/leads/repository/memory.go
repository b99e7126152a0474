package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"lead_crm_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// MemoryRepository keeps leads in process memory. It backs LEAD_STORE=memory
// and the service tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	leads map[uuid.UUID]domain.Lead
	now   func() time.Time
}

// NewMemory creates an empty repository using the wall clock.
func NewMemory() *MemoryRepository {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock creates an empty repository reading timestamps from now.
func NewMemoryWithClock(now func() time.Time) *MemoryRepository {
	return &MemoryRepository{
		leads: make(map[uuid.UUID]domain.Lead),
		now:   now,
	}
}

// visible is the visibility rule shared by every method.
func visible(lead domain.Lead) bool {
	return lead.IsActive
}

func (m *MemoryRepository) Create(ctx context.Context, params CreateParams) (domain.Lead, error) {
	if err := ctx.Err(); err != nil {
		return domain.Lead{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ts := m.now().UTC()
	f := params.Fields
	lead := domain.Lead{
		ID:        params.ID,
		Name:      f.Name,
		Email:     f.Email,
		Phone:     f.Phone,
		Status:    f.Status,
		Source:    f.Source,
		IsActive:  true,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	m.leads[lead.ID] = lead
	return lead, nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	if err := ctx.Err(); err != nil {
		return domain.Lead{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	lead, ok := m.leads[id]
	if !ok || !visible(lead) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, nil
}

func (m *MemoryRepository) Update(ctx context.Context, id uuid.UUID, fields domain.Fields) (domain.Lead, error) {
	if err := ctx.Err(); err != nil {
		return domain.Lead{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	lead, ok := m.leads[id]
	if !ok || !visible(lead) {
		return domain.Lead{}, ErrNotFound
	}
	lead.Name = fields.Name
	lead.Email = fields.Email
	lead.Phone = fields.Phone
	lead.Status = fields.Status
	lead.Source = fields.Source
	lead.UpdatedAt = m.now().UTC()
	m.leads[id] = lead
	return lead, nil
}

func (m *MemoryRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	lead, ok := m.leads[id]
	if !ok || !visible(lead) {
		return ErrNotFound
	}
	lead.IsActive = false
	lead.UpdatedAt = m.now().UTC()
	m.leads[id] = lead
	return nil
}

func (m *MemoryRepository) Query(ctx context.Context, filter domain.Filter, window domain.Window) ([]domain.Lead, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	m.mu.RLock()
	matches := make([]domain.Lead, 0, len(m.leads))
	for _, lead := range m.leads {
		if visible(lead) && matchesFilter(lead, filter) {
			matches = append(matches, lead)
		}
	}
	m.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID.String() > matches[j].ID.String()
	})

	total := len(matches)
	start := min(max(window.Offset, 0), total)
	end := total
	if window.Limit >= 0 && window.Limit < total-start {
		end = start + window.Limit
	}

	page := make([]domain.Lead, end-start)
	copy(page, matches[start:end])
	return page, total, nil
}

func matchesFilter(lead domain.Lead, filter domain.Filter) bool {
	if filter.Status != "" && string(lead.Status) != filter.Status {
		return false
	}
	if filter.Search == "" {
		return true
	}
	term := strings.ToLower(filter.Search)
	return strings.Contains(strings.ToLower(lead.Name), term) ||
		strings.Contains(strings.ToLower(lead.Email), term) ||
		strings.Contains(strings.ToLower(lead.Phone), term)
}

var _ LeadRepository = (*MemoryRepository)(nil)
