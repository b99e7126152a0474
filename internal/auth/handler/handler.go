package handler

import (
	"context"
	"net/http"

	"lead_crm_backend/internal/auth/repository"
	"lead_crm_backend/internal/auth/service"
	"lead_crm_backend/internal/auth/transport"
	"lead_crm_backend/platform/apperr"
	"lead_crm_backend/platform/httpkit"
	"lead_crm_backend/platform/logger"
	"lead_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidRequest = "invalid request"

// Authenticator is the auth service as the handler uses it.
type Authenticator interface {
	Register(ctx context.Context, name, email, plainPassword string) (service.Session, error)
	Login(ctx context.Context, email, plainPassword string) (service.Session, error)
	GetMe(ctx context.Context, userID uuid.UUID) (repository.User, error)
}

type Handler struct {
	svc Authenticator
	val *validator.Validator
	log *logger.Logger
}

func New(svc Authenticator, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{svc: svc, val: val, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
}

func (h *Handler) Register(c *gin.Context) {
	var req transport.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest), h.log)
		return
	}
	if httpkit.HandleError(c, h.val.Validate(req), h.log) {
		return
	}

	session, err := h.svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if httpkit.HandleError(c, err, h.log) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ToAuthResponse(session.User, session.Token))
}

func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest), h.log)
		return
	}
	if httpkit.HandleError(c, h.val.Validate(req), h.log) {
		return
	}

	session, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if httpkit.HandleError(c, err, h.log) {
		return
	}

	httpkit.OK(c, transport.ToAuthResponse(session.User, session.Token))
}

func (h *Handler) GetMe(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	user, err := h.svc.GetMe(c.Request.Context(), id.UserID())
	if httpkit.HandleError(c, err, h.log) {
		return
	}

	httpkit.OK(c, transport.ToProfileResponse(user))
}
