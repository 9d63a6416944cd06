package coaches

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clubcourt/backend/internal/models"
	"github.com/clubcourt/backend/pkg/response"
)

// Handler handles coach HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a coaches handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// CoachRequest is the body for coach create and update calls.
type CoachRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Bio      string `json:"bio"`
	PhotoURL string `json:"photo_url"`
	Active   *bool  `json:"active"`
}

// Create handles POST /clubs/:id/coaches (club manage guarded).
func (h *Handler) Create(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	var req CoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	co := &models.Coach{
		ClubID:   clubID,
		FullName: req.FullName,
		Bio:      req.Bio,
		PhotoURL: req.PhotoURL,
	}
	if err := h.repo.Create(c.Request.Context(), co); err != nil {
		h.logger.Error("create coach failed", zap.Error(err))
		response.Internal(c, "failed to create coach")
		return
	}
	response.Created(c, co)
}

// List handles GET /clubs/:id/coaches (club access guarded).
func (h *Handler) List(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	list, err := h.repo.ListByClub(c.Request.Context(), clubID)
	if err != nil {
		h.logger.Error("list coaches failed", zap.Error(err))
		response.Internal(c, "failed to list coaches")
		return
	}
	response.OK(c, list)
}

// Update handles PATCH /clubs/:id/coaches/:coachId (club manage guarded).
func (h *Handler) Update(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	coachID, err := uuid.Parse(c.Param("coachId"))
	if err != nil {
		response.BadRequest(c, "invalid coach id")
		return
	}
	var req CoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	co, err := h.repo.GetByID(c.Request.Context(), coachID)
	if err != nil || co.ClubID != clubID {
		if err == nil || errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, "coach not found")
			return
		}
		response.Internal(c, "failed to load coach")
		return
	}
	co.FullName = req.FullName
	co.Bio = req.Bio
	co.PhotoURL = req.PhotoURL
	if req.Active != nil {
		co.Active = *req.Active
	}
	if err := h.repo.Update(c.Request.Context(), co); err != nil {
		h.logger.Error("update coach failed", zap.Error(err))
		response.Internal(c, "failed to update coach")
		return
	}
	response.OK(c, co)
}

// Delete handles DELETE /clubs/:id/coaches/:coachId (club manage guarded).
func (h *Handler) Delete(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	coachID, err := uuid.Parse(c.Param("coachId"))
	if err != nil {
		response.BadRequest(c, "invalid coach id")
		return
	}
	co, err := h.repo.GetByID(c.Request.Context(), coachID)
	if err != nil || co.ClubID != clubID {
		if err == nil || errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, "coach not found")
			return
		}
		response.Internal(c, "failed to load coach")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), coachID); err != nil {
		h.logger.Error("delete coach failed", zap.Error(err))
		response.Internal(c, "failed to delete coach")
		return
	}
	response.NoContent(c)
}
