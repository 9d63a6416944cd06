package organizations

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clubcourt/backend/internal/access"
	"github.com/clubcourt/backend/internal/models"
	"github.com/clubcourt/backend/pkg/response"
)

// Handler handles organization HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates an organizations handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// CreateRequest is the body for POST /organizations.
type CreateRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

// Create handles POST /organizations (root only; guarded at the route).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID, _, ok := access.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing user context")
		return
	}
	org := &models.Organization{Name: req.Name, Slug: strings.ToLower(req.Slug)}
	if err := h.repo.Create(c.Request.Context(), org, userID); err != nil {
		h.logger.Error("create organization failed", zap.Error(err))
		response.Internal(c, "failed to create organization")
		return
	}
	response.Created(c, org)
}

// ListMine handles GET /organizations. Root admins see every organization,
// everyone else the ones they belong to.
func (h *Handler) ListMine(c *gin.Context) {
	userID, isRoot, ok := access.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing user context")
		return
	}
	var (
		list []*models.Organization
		err  error
	)
	if isRoot {
		list, err = h.repo.ListAll(c.Request.Context())
	} else {
		list, err = h.repo.ListForUser(c.Request.Context(), userID)
	}
	if err != nil {
		h.logger.Error("list organizations failed", zap.Error(err))
		response.Internal(c, "failed to list organizations")
		return
	}
	response.OK(c, list)
}

// Get handles GET /organizations/:id (access guarded at the route).
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	org, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, "organization not found")
			return
		}
		response.Internal(c, "failed to load organization")
		return
	}
	response.OK(c, org)
}

// UpdateRequest is the body for PATCH /organizations/:id.
type UpdateRequest struct {
	Name string `json:"name" binding:"required"`
}

// Update handles PATCH /organizations/:id (manage guarded at the route).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	org, err := h.repo.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, "organization not found")
			return
		}
		h.logger.Error("update organization failed", zap.Error(err))
		response.Internal(c, "failed to update organization")
		return
	}
	response.OK(c, org)
}

// Delete handles DELETE /organizations/:id (root only; guarded at the route).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, "organization not found")
			return
		}
		h.logger.Error("delete organization failed", zap.Error(err))
		response.Internal(c, "failed to delete organization")
		return
	}
	response.NoContent(c)
}

// ListMembers handles GET /organizations/:id/members (access guarded).
func (h *Handler) ListMembers(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	members, err := h.repo.ListMembers(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("list members failed", zap.Error(err))
		response.Internal(c, "failed to list members")
		return
	}
	response.OK(c, members)
}

// SetMemberRoleRequest is the body for PUT /organizations/:id/members/:userId.
type SetMemberRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// SetMemberRole handles PUT /organizations/:id/members/:userId (manage guarded).
func (h *Handler) SetMemberRole(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	var req SetMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Role != models.OrgRoleAdmin && req.Role != models.OrgRoleMember {
		response.BadRequest(c, "invalid role")
		return
	}
	if err := h.repo.SetMemberRole(c.Request.Context(), orgID, userID, req.Role); err != nil {
		h.logger.Error("set member role failed", zap.Error(err))
		response.Internal(c, "failed to update member")
		return
	}
	response.OK(c, gin.H{"role": req.Role})
}

// RemoveMember handles DELETE /organizations/:id/members/:userId (manage guarded).
func (h *Handler) RemoveMember(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	if err := h.repo.RemoveMember(c.Request.Context(), orgID, userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, "membership not found")
			return
		}
		h.logger.Error("remove member failed", zap.Error(err))
		response.Internal(c, "failed to remove member")
		return
	}
	response.NoContent(c)
}
