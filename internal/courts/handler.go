package courts

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clubcourt/backend/internal/models"
	"github.com/clubcourt/backend/pkg/response"
)

// Handler handles court HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a courts handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// CreateRequest is the body for POST /clubs/:id/courts.
type CreateRequest struct {
	Name           string `json:"name" binding:"required"`
	Surface        string `json:"surface"`
	Indoor         bool   `json:"indoor"`
	SlotMinutes    int    `json:"slot_minutes"`
	PriceCentsHour int    `json:"price_cents_hour"`
}

// Create handles POST /clubs/:id/courts (club manage guarded).
func (h *Handler) Create(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.SlotMinutes == 0 {
		req.SlotMinutes = 60
	}
	if req.SlotMinutes < 15 || req.SlotMinutes > 240 {
		response.BadRequest(c, "slot_minutes must be between 15 and 240")
		return
	}
	ct := &models.Court{
		ClubID:         clubID,
		Name:           req.Name,
		Surface:        req.Surface,
		Indoor:         req.Indoor,
		SlotMinutes:    req.SlotMinutes,
		PriceCentsHour: req.PriceCentsHour,
	}
	if err := h.repo.Create(c.Request.Context(), ct); err != nil {
		h.logger.Error("create court failed", zap.Error(err))
		response.Internal(c, "failed to create court")
		return
	}
	response.Created(c, ct)
}

// List handles GET /clubs/:id/courts (club access guarded).
func (h *Handler) List(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	list, err := h.repo.ListByClub(c.Request.Context(), clubID)
	if err != nil {
		h.logger.Error("list courts failed", zap.Error(err))
		response.Internal(c, "failed to list courts")
		return
	}
	response.OK(c, list)
}

// Get handles GET /clubs/:id/courts/:courtId (club access guarded).
func (h *Handler) Get(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	courtID, err := uuid.Parse(c.Param("courtId"))
	if err != nil {
		response.BadRequest(c, "invalid court id")
		return
	}
	ct, err := h.repo.GetByID(c.Request.Context(), courtID)
	if err != nil || ct.ClubID != clubID {
		if err == nil || errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, "court not found")
			return
		}
		response.Internal(c, "failed to load court")
		return
	}
	response.OK(c, ct)
}

// UpdateRequest is the body for PATCH /clubs/:id/courts/:courtId.
type UpdateRequest struct {
	Name           string `json:"name" binding:"required"`
	Surface        string `json:"surface"`
	Indoor         bool   `json:"indoor"`
	SlotMinutes    int    `json:"slot_minutes" binding:"required"`
	PriceCentsHour int    `json:"price_cents_hour"`
	Active         *bool  `json:"active"`
}

// Update handles PATCH /clubs/:id/courts/:courtId (club manage guarded).
func (h *Handler) Update(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	courtID, err := uuid.Parse(c.Param("courtId"))
	if err != nil {
		response.BadRequest(c, "invalid court id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.SlotMinutes < 15 || req.SlotMinutes > 240 {
		response.BadRequest(c, "slot_minutes must be between 15 and 240")
		return
	}
	ct, err := h.repo.GetByID(c.Request.Context(), courtID)
	if err != nil || ct.ClubID != clubID {
		if err == nil || errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, "court not found")
			return
		}
		response.Internal(c, "failed to load court")
		return
	}
	ct.Name = req.Name
	ct.Surface = req.Surface
	ct.Indoor = req.Indoor
	ct.SlotMinutes = req.SlotMinutes
	ct.PriceCentsHour = req.PriceCentsHour
	if req.Active != nil {
		ct.Active = *req.Active
	}
	if err := h.repo.Update(c.Request.Context(), ct); err != nil {
		h.logger.Error("update court failed", zap.Error(err))
		response.Internal(c, "failed to update court")
		return
	}
	response.OK(c, ct)
}

// Delete handles DELETE /clubs/:id/courts/:courtId (club manage guarded).
func (h *Handler) Delete(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	courtID, err := uuid.Parse(c.Param("courtId"))
	if err != nil {
		response.BadRequest(c, "invalid court id")
		return
	}
	ct, err := h.repo.GetByID(c.Request.Context(), courtID)
	if err != nil || ct.ClubID != clubID {
		if err == nil || errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, "court not found")
			return
		}
		response.Internal(c, "failed to load court")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), courtID); err != nil {
		h.logger.Error("delete court failed", zap.Error(err))
		response.Internal(c, "failed to delete court")
		return
	}
	response.NoContent(c)
}
