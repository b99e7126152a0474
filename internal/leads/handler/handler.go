package handler

import (
	"context"
	"net/http"

	"lead_crm_backend/internal/leads/domain"
	"lead_crm_backend/internal/leads/query"
	"lead_crm_backend/internal/leads/transport"
	"lead_crm_backend/platform/apperr"
	"lead_crm_backend/platform/httpkit"
	"lead_crm_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest = "invalid request"
	msgLeadNotFound   = "lead not found"
	msgLeadRemoved    = "Lead removed"
)

// Store is the lead store as the handler uses it.
type Store interface {
	Create(ctx context.Context, draft domain.Draft) (domain.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.Patch) (domain.Lead, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// Lister resolves list requests.
type Lister interface {
	ListLeads(ctx context.Context, rawPage, rawLimit, rawSearch, rawStatus string) (query.Envelope, error)
}

type Handler struct {
	store  Store
	lister Lister
	log    *logger.Logger
}

func New(store Store, lister Lister, log *logger.Logger) *Handler {
	return &Handler{store: store, lister: lister, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest), h.log)
		return
	}

	env, err := h.lister.ListLeads(c.Request.Context(), req.Page, req.Limit, req.Search, req.Status)
	if httpkit.HandleError(c, err, h.log) {
		return
	}

	httpkit.OK(c, transport.ToLeadListResponse(env))
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest), h.log)
		return
	}

	lead, err := h.store.Create(c.Request.Context(), req.Draft())
	if httpkit.HandleError(c, err, h.log) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ToLeadResponse(lead))
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	lead, err := h.store.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err, h.log) {
		return
	}

	httpkit.OK(c, transport.ToLeadResponse(lead))
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest), h.log)
		return
	}

	lead, err := h.store.Update(c.Request.Context(), id, req.Patch())
	if httpkit.HandleError(c, err, h.log) {
		return
	}

	httpkit.OK(c, transport.ToLeadResponse(lead))
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.store.SoftDelete(c.Request.Context(), id), h.log) {
		return
	}

	httpkit.Message(c, msgLeadRemoved)
}

// parseLeadID answers 404 for ids that cannot name any lead.
func parseLeadID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusNotFound, msgLeadNotFound, nil)
		return uuid.Nil, false
	}
	return id, true
}
