package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps users in process memory for LEAD_STORE=memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]User
	byEmail map[string]uuid.UUID
	now     func() time.Time
}

func NewMemory() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[uuid.UUID]User),
		byEmail: make(map[string]uuid.UUID),
		now:     time.Now,
	}
}

func (m *MemoryRepository) CreateUser(_ context.Context, params CreateUserParams) (User, error) {
	email := strings.ToLower(params.Email)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byEmail[email]; taken {
		return User{}, ErrDuplicateEmail
	}

	now := m.now().UTC()
	user := User{
		ID:           params.ID,
		Name:         params.Name,
		Email:        email,
		PasswordHash: params.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.byID[user.ID] = user
	m.byEmail[email] = user.ID
	return user, nil
}

func (m *MemoryRepository) GetUserByEmail(_ context.Context, email string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return User{}, ErrNotFound
	}
	return m.byID[id], nil
}

func (m *MemoryRepository) GetUserByID(_ context.Context, userID uuid.UUID) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.byID[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}
