package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"lead_crm_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct {
	t time.Time
}

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func seed(t *testing.T, repo *MemoryRepository, name, email, phone string, status domain.Status) domain.Lead {
	t.Helper()
	lead, err := repo.Create(context.Background(), CreateParams{
		ID:     uuid.New(),
		Fields: domain.Fields{Name: name, Email: email, Phone: phone, Status: status, Source: domain.SourceOther},
	})
	require.NoError(t, err)
	return lead
}

func names(leads []domain.Lead) []string {
	out := make([]string, len(leads))
	for i, l := range leads {
		out[i] = l.Name
	}
	return out
}

func TestMemoryQueryOrdersNewestFirst(t *testing.T) {
	clock := &stepClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	repo := NewMemoryWithClock(clock.now)
	for i := 1; i <= 3; i++ {
		seed(t, repo, fmt.Sprintf("L%d", i), fmt.Sprintf("l%d@x.com", i), "555", domain.StatusNew)
	}

	items, total, err := repo.Query(context.Background(), domain.Filter{}, domain.Window{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"L3", "L2", "L1"}, names(items))
}

func TestMemoryQueryTieBreaksOnID(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := NewMemoryWithClock(func() time.Time { return fixed })
	for i := 0; i < 5; i++ {
		seed(t, repo, fmt.Sprintf("L%d", i), "a@x.com", "555", domain.StatusNew)
	}

	first, _, err := repo.Query(context.Background(), domain.Filter{}, domain.Window{Limit: 5})
	require.NoError(t, err)
	second, _, err := repo.Query(context.Background(), domain.Filter{}, domain.Window{Limit: 5})
	require.NoError(t, err)

	assert.Equal(t, names(first), names(second))
	for i := 1; i < len(first); i++ {
		assert.Greater(t, first[i-1].ID.String(), first[i].ID.String())
	}
}

func TestMemorySearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	repo := NewMemory()
	seed(t, repo, "Ana Silva", "ana@x.com", "555-0100", domain.StatusNew)
	seed(t, repo, "Bruno", "bruno@ANAlytics.io", "555-0200", domain.StatusContacted)
	seed(t, repo, "Carla", "carla@x.com", "999-ana", domain.StatusNew)
	seed(t, repo, "Dora", "dora@x.com", "555-0300", domain.StatusNew)

	items, total, err := repo.Query(context.Background(), domain.Filter{Search: "aNa"}, domain.Window{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.ElementsMatch(t, []string{"Ana Silva", "Bruno", "Carla"}, names(items))

	items, total, err = repo.Query(context.Background(), domain.Filter{Search: "ana", Status: "New"}, domain.Window{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.ElementsMatch(t, []string{"Ana Silva", "Carla"}, names(items))
}

func TestMemorySearchIsLiteral(t *testing.T) {
	repo := NewMemory()
	seed(t, repo, "A.*", "a@x.com", "555", domain.StatusNew)
	seed(t, repo, "Abc", "b@x.com", "555", domain.StatusNew)

	items, _, err := repo.Query(context.Background(), domain.Filter{Search: ".*"}, domain.Window{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"A.*"}, names(items))
}

func TestMemorySoftDeleteHidesLead(t *testing.T) {
	repo := NewMemory()
	lead := seed(t, repo, "Ana", "ana@x.com", "555", domain.StatusNew)
	ctx := context.Background()

	require.NoError(t, repo.SoftDelete(ctx, lead.ID))

	_, err := repo.GetByID(ctx, lead.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Update(ctx, lead.ID, lead.Fields())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.SoftDelete(ctx, lead.ID), ErrNotFound)

	items, total, err := repo.Query(ctx, domain.Filter{Search: "Ana"}, domain.Window{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestMemoryWindowPastEnd(t *testing.T) {
	repo := NewMemory()
	seed(t, repo, "Ana", "ana@x.com", "555", domain.StatusNew)

	items, total, err := repo.Query(context.Background(), domain.Filter{}, domain.Window{Offset: 10, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Empty(t, items)
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
	repo := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := repo.Query(ctx, domain.Filter{}, domain.Window{Limit: 10})
	assert.ErrorIs(t, err, context.Canceled)
}
