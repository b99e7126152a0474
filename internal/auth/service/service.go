package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"lead_crm_backend/internal/auth/password"
	"lead_crm_backend/internal/auth/repository"
	"lead_crm_backend/internal/auth/token"
	"lead_crm_backend/internal/events"
	"lead_crm_backend/platform/apperr"
	"lead_crm_backend/platform/config"
	"lead_crm_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	msgUserExists         = "user already exists"
	msgInvalidCredentials = "invalid credentials"
	msgUserNotFound       = "user not found"
)

// Session is an authenticated user together with a fresh access token.
type Session struct {
	User  repository.User
	Token string
}

type Service struct {
	repo  repository.UserRepository
	cfg   config.AuthServiceConfig
	bus   events.Bus
	log   *logger.Logger
	now   func() time.Time
	newID func() uuid.UUID
}

// New creates the auth service. bus may be nil.
func New(repo repository.UserRepository, cfg config.AuthServiceConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:  repo,
		cfg:   cfg,
		bus:   bus,
		log:   log,
		now:   time.Now,
		newID: uuid.New,
	}
}

// Register creates an account and signs the caller in.
func (s *Service) Register(ctx context.Context, name, email, plainPassword string) (Session, error) {
	email = normalizeEmail(email)

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return Session{}, apperr.Wrap(apperr.KindInternal, "hash password", err).WithOp("auth.Register")
	}

	user, err := s.repo.CreateUser(ctx, repository.CreateUserParams{
		ID:           s.newID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.log.AuthEvent("register", email, false, "duplicate email")
			return Session{}, apperr.Conflict(msgUserExists).WithOp("auth.Register")
		}
		s.log.WithContext(ctx).DatabaseError("auth.Register", err)
		return Session{}, apperr.Storage("auth.Register", err)
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.UserRegistered{
			BaseEvent: events.NewBaseEvent(),
			UserID:    user.ID,
			Name:      user.Name,
			Email:     user.Email,
		})
	}
	s.log.AuthEvent("register", email, true, "")

	return s.session(user)
}

// Login verifies credentials. Unknown emails and wrong passwords fail the same way.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (Session, error) {
	email = normalizeEmail(email)

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.AuthEvent("login", email, false, "unknown email")
			return Session{}, apperr.Unauthorized(msgInvalidCredentials).WithOp("auth.Login")
		}
		s.log.WithContext(ctx).DatabaseError("auth.Login", err)
		return Session{}, apperr.Storage("auth.Login", err)
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("login", email, false, "password mismatch")
		return Session{}, apperr.Unauthorized(msgInvalidCredentials).WithOp("auth.Login")
	}

	s.log.AuthEvent("login", email, true, "")
	return s.session(user)
}

// GetMe returns the profile of the authenticated user.
func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (repository.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.User{}, apperr.NotFound(msgUserNotFound).WithOp("auth.GetMe")
		}
		s.log.WithContext(ctx).DatabaseError("auth.GetMe", err)
		return repository.User{}, apperr.Storage("auth.GetMe", err)
	}
	return user, nil
}

func (s *Service) session(user repository.User) (Session, error) {
	accessToken, err := token.SignAccess(user.ID, s.cfg.GetJWTAccessSecret(), s.cfg.GetAccessTokenTTL(), s.now())
	if err != nil {
		return Session{}, apperr.Wrap(apperr.KindInternal, "sign token", err)
	}
	return Session{User: user, Token: accessToken}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
