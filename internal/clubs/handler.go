package clubs

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clubcourt/backend/internal/access"
	"github.com/clubcourt/backend/internal/models"
	"github.com/clubcourt/backend/internal/timeutil"
	"github.com/clubcourt/backend/pkg/response"
)

// Handler handles club HTTP endpoints.
type Handler struct {
	repo            *Repository
	auth            *access.Authorizer
	defaultTimezone string
	logger          *zap.Logger
}

// NewHandler creates a clubs handler.
func NewHandler(repo *Repository, auth *access.Authorizer, defaultTimezone string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, auth: auth, defaultTimezone: defaultTimezone, logger: logger}
}

// normalizeTimezone validates a submitted zone and reports substitution.
// Invalid zones are stored as NULL so the platform default applies.
func (h *Handler) normalizeTimezone(tz *string) *string {
	if tz == nil || *tz == "" {
		return nil
	}
	if _, substituted := timeutil.ResolveZone(*tz, h.defaultTimezone); substituted {
		h.logger.Debug("invalid club timezone replaced with default",
			zap.String("candidate", *tz), zap.String("default", h.defaultTimezone))
		return nil
	}
	return tz
}

// CreateRequest is the body for POST /organizations/:id/clubs.
type CreateRequest struct {
	Name     string  `json:"name" binding:"required"`
	Address  string  `json:"address"`
	Timezone *string `json:"timezone,omitempty"`
}

// Create handles POST /organizations/:id/clubs (org manage guarded).
func (h *Handler) Create(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
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
	club := &models.Club{
		OrganizationID: orgID,
		Name:           req.Name,
		Address:        req.Address,
		Timezone:       h.normalizeTimezone(req.Timezone),
	}
	if err := h.repo.Create(c.Request.Context(), club, userID); err != nil {
		h.logger.Error("create club failed", zap.Error(err))
		response.Internal(c, "failed to create club")
		return
	}
	response.Created(c, club)
}

// ListByOrganization handles GET /organizations/:id/clubs (org access guarded).
func (h *Handler) ListByOrganization(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	list, err := h.repo.ListByOrganization(c.Request.Context(), orgID)
	if err != nil {
		h.logger.Error("list clubs failed", zap.Error(err))
		response.Internal(c, "failed to list clubs")
		return
	}
	response.OK(c, list)
}

// Get handles GET /clubs/:id (club access guarded).
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	club, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, "club not found")
			return
		}
		response.Internal(c, "failed to load club")
		return
	}
	response.OK(c, club)
}

// UpdateRequest is the body for PATCH /clubs/:id.
type UpdateRequest struct {
	Name     string  `json:"name" binding:"required"`
	Address  string  `json:"address"`
	Timezone *string `json:"timezone,omitempty"`
}

// Update handles PATCH /clubs/:id (club manage guarded).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	club, err := h.repo.Update(c.Request.Context(), id, req.Name, req.Address, h.normalizeTimezone(req.Timezone))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, "club not found")
			return
		}
		h.logger.Error("update club failed", zap.Error(err))
		response.Internal(c, "failed to update club")
		return
	}
	response.OK(c, club)
}

// Delete handles DELETE /clubs/:id (club manage guarded).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, "club not found")
			return
		}
		h.logger.Error("delete club failed", zap.Error(err))
		response.Internal(c, "failed to delete club")
		return
	}
	response.NoContent(c)
}

// privilegedClubRole reports whether a role may only be granted or revoked
// by root admins and the owning organization's admin.
func privilegedClubRole(role string) bool {
	return role == models.ClubRoleOwner || role == models.ClubRoleAdmin
}

// SetMemberRoleRequest is the body for PUT /clubs/:id/members/:userId.
type SetMemberRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// SetMemberRole handles PUT /clubs/:id/members/:userId (club manage
// guarded). Granting club_owner or club_admin additionally requires
// assignment rights; a club admin cannot appoint another admin.
func (h *Handler) SetMemberRole(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
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
	if req.Role != models.ClubRoleOwner && req.Role != models.ClubRoleAdmin && req.Role != models.ClubRoleMember {
		response.BadRequest(c, "invalid role")
		return
	}
	current, err := h.repo.GetMemberRole(c.Request.Context(), clubID, userID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		response.Internal(c, "failed to load membership")
		return
	}
	if privilegedClubRole(req.Role) || privilegedClubRole(current) {
		scope, ok := access.ScopeFromContext(c)
		if !ok {
			response.Forbidden(c, "insufficient permissions")
			return
		}
		allowed, err := h.auth.CanAssignClubAdmins(c.Request.Context(), scope, clubID)
		if err != nil || !allowed {
			response.Forbidden(c, "insufficient permissions")
			return
		}
	}
	if err := h.repo.SetMemberRole(c.Request.Context(), clubID, userID, req.Role); err != nil {
		h.logger.Error("set club member role failed", zap.Error(err))
		response.Internal(c, "failed to update member")
		return
	}
	response.OK(c, gin.H{"role": req.Role})
}

// RemoveMember handles DELETE /clubs/:id/members/:userId (club manage
// guarded). Removing an owner or admin requires assignment rights.
func (h *Handler) RemoveMember(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	current, err := h.repo.GetMemberRole(c.Request.Context(), clubID, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, "membership not found")
			return
		}
		response.Internal(c, "failed to load membership")
		return
	}
	if privilegedClubRole(current) {
		scope, ok := access.ScopeFromContext(c)
		if !ok {
			response.Forbidden(c, "insufficient permissions")
			return
		}
		allowed, err := h.auth.CanAssignClubAdmins(c.Request.Context(), scope, clubID)
		if err != nil || !allowed {
			response.Forbidden(c, "insufficient permissions")
			return
		}
	}
	if err := h.repo.RemoveMember(c.Request.Context(), clubID, userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, "membership not found")
			return
		}
		h.logger.Error("remove club member failed", zap.Error(err))
		response.Internal(c, "failed to remove member")
		return
	}
	response.NoContent(c)
}

// GetHours handles GET /clubs/:id/hours (club access guarded).
func (h *Handler) GetHours(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	hours, err := h.repo.GetOpeningHours(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("get opening hours failed", zap.Error(err))
		response.Internal(c, "failed to load opening hours")
		return
	}
	response.OK(c, hours)
}

// SetHoursRequest is the body for PUT /clubs/:id/hours.
type SetHoursRequest struct {
	Weekday   *int   `json:"weekday" binding:"required"`
	OpenTime  string `json:"open_time" binding:"required"`
	CloseTime string `json:"close_time" binding:"required"`
	Closed    bool   `json:"closed"`
}

// SetHours handles PUT /clubs/:id/hours (club manage guarded). Open and
// close times are club-local HH:MM wall clock.
func (h *Handler) SetHours(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	var req SetHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if *req.Weekday < 0 || *req.Weekday > 6 {
		response.BadRequest(c, "weekday must be 0-6")
		return
	}
	if req.Closed {
		if err := h.repo.DeleteOpeningHours(c.Request.Context(), id, *req.Weekday); err != nil {
			h.logger.Error("delete opening hours failed", zap.Error(err))
			response.Internal(c, "failed to update opening hours")
			return
		}
		response.NoContent(c)
		return
	}
	open, err := timeutil.ParseUTC("2000-01-03", req.OpenTime) // date only anchors validation
	if err != nil {
		response.BadRequest(c, "invalid open_time")
		return
	}
	closeAt, err := timeutil.ParseUTC("2000-01-03", req.CloseTime)
	if err != nil {
		response.BadRequest(c, "invalid close_time")
		return
	}
	if !open.Before(closeAt) {
		response.BadRequest(c, "open_time must be before close_time")
		return
	}
	if err := h.repo.SetOpeningHours(c.Request.Context(), id, *req.Weekday, req.OpenTime, req.CloseTime); err != nil {
		h.logger.Error("set opening hours failed", zap.Error(err))
		response.Internal(c, "failed to update opening hours")
		return
	}
	response.OK(c, gin.H{"weekday": *req.Weekday, "open_time": req.OpenTime, "close_time": req.CloseTime})
}

// GetPaymentKeys handles GET /clubs/:id/payment-keys (payment-keys guarded).
// The secret key is returned masked.
func (h *Handler) GetPaymentKeys(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	keys, err := h.repo.GetPaymentKeys(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, "payment keys not configured")
			return
		}
		response.Internal(c, "failed to load payment keys")
		return
	}
	response.OK(c, gin.H{
		"publishable_key": keys.PublishableKey,
		"secret_key":      maskSecret(keys.SecretKey),
		"updated_at":      keys.UpdatedAt,
	})
}

// SetPaymentKeysRequest is the body for PUT /clubs/:id/payment-keys.
type SetPaymentKeysRequest struct {
	PublishableKey string `json:"publishable_key" binding:"required"`
	SecretKey      string `json:"secret_key" binding:"required"`
}

// SetPaymentKeys handles PUT /clubs/:id/payment-keys (payment-keys guarded).
func (h *Handler) SetPaymentKeys(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	var req SetPaymentKeysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.repo.SetPaymentKeys(c.Request.Context(), id, req.PublishableKey, req.SecretKey); err != nil {
		h.logger.Error("set payment keys failed", zap.Error(err))
		response.Internal(c, "failed to store payment keys")
		return
	}
	response.OK(c, gin.H{"publishable_key": req.PublishableKey, "secret_key": maskSecret(req.SecretKey)})
}

func maskSecret(s string) string {
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
}
