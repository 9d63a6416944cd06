package invites

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clubcourt/backend/internal/access"
	"github.com/clubcourt/backend/internal/middleware"
	"github.com/clubcourt/backend/internal/models"
	"github.com/clubcourt/backend/pkg/response"
	"github.com/clubcourt/backend/pkg/utils"
)

// Handler handles admin invite HTTP endpoints.
type Handler struct {
	repo        *Repository
	expireHours int
	logger      *zap.Logger
}

// NewHandler creates an invites handler.
func NewHandler(repo *Repository, expireHours int, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, expireHours: expireHours, logger: logger}
}

func (h *Handler) issue(c *gin.Context, kind string, targetID uuid.UUID, email string) {
	userID, _, ok := access.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing user context")
		return
	}
	token, err := utils.GenerateToken()
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	in := &models.Invite{
		Kind:      kind,
		TargetID:  targetID,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		TokenHash: utils.HashToken(token),
		InvitedBy: userID,
		ExpiresAt: time.Now().UTC().Add(time.Duration(h.expireHours) * time.Hour),
	}
	if err := h.repo.Create(c.Request.Context(), in); err != nil {
		h.logger.Error("create invite failed", zap.Error(err), zap.String("kind", kind))
		response.Internal(c, "failed to create invite")
		return
	}
	// The plain token appears only here; the store keeps its digest.
	response.Created(c, gin.H{"invite": in, "token": token})
}

// CreateOrgAdminRequest is the body for POST /organizations/:id/invites.
type CreateOrgAdminRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// CreateOrgAdmin handles POST /organizations/:id/invites (org manage guarded).
func (h *Handler) CreateOrgAdmin(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	var req CreateOrgAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	h.issue(c, models.InviteOrgAdmin, orgID, req.Email)
}

// CreateClubRequest is the body for POST /clubs/:id/invites.
type CreateClubRequest struct {
	Email string `json:"email" binding:"required,email"`
	Kind  string `json:"kind" binding:"required"`
}

// CreateClub handles POST /clubs/:id/invites (club-admin-assign guarded:
// only root admins and the owning organization's admin may invite club
// owners or club admins).
func (h *Handler) CreateClub(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	var req CreateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Kind != models.InviteClubOwner && req.Kind != models.InviteClubAdmin {
		response.BadRequest(c, "kind must be club_owner or club_admin")
		return
	}
	h.issue(c, req.Kind, clubID, req.Email)
}

// ListByTarget handles GET /organizations/:id/invites and
// GET /clubs/:id/invites (manage guarded at the route).
func (h *Handler) ListByTarget(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}
	list, err := h.repo.ListByTarget(c.Request.Context(), targetID)
	if err != nil {
		h.logger.Error("list invites failed", zap.Error(err))
		response.Internal(c, "failed to list invites")
		return
	}
	response.OK(c, list)
}

// Revoke handles DELETE .../invites/:inviteId (manage guarded at the route).
func (h *Handler) Revoke(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}
	inviteID, err := uuid.Parse(c.Param("inviteId"))
	if err != nil {
		response.BadRequest(c, "invalid invite id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), targetID, inviteID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, "invite not found")
			return
		}
		h.logger.Error("revoke invite failed", zap.Error(err))
		response.Internal(c, "failed to revoke invite")
		return
	}
	response.NoContent(c)
}

// AcceptRequest is the body for POST /invites/accept.
type AcceptRequest struct {
	Token string `json:"token" binding:"required"`
}

// Accept handles POST /invites/accept (authenticated). The invite must be
// addressed to the caller's email, unexpired, and not yet accepted.
func (h *Handler) Accept(c *gin.Context) {
	var req AcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID, _, ok := access.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing user context")
		return
	}
	email := c.GetString(middleware.ContextUserEmail)

	in, err := h.repo.GetByTokenHash(c.Request.Context(), utils.HashToken(req.Token))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, "invite not found")
			return
		}
		response.Internal(c, "failed to load invite")
		return
	}
	if !strings.EqualFold(in.Email, email) {
		response.Forbidden(c, "invite is addressed to a different email")
		return
	}
	if in.AcceptedAt != nil {
		response.Conflict(c, "invite already accepted")
		return
	}
	if time.Now().UTC().After(in.ExpiresAt) {
		response.Conflict(c, "invite has expired")
		return
	}
	if err := h.repo.Accept(c.Request.Context(), in, userID); err != nil {
		h.logger.Error("accept invite failed", zap.Error(err), zap.String("invite_id", in.ID.String()))
		response.Internal(c, "failed to accept invite")
		return
	}
	response.OK(c, gin.H{"kind": in.Kind, "target_id": in.TargetID})
}
