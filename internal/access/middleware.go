package access

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clubcourt/backend/internal/middleware"
	"github.com/clubcourt/backend/internal/models"
	"github.com/clubcourt/backend/pkg/response"
)

// ContextScope is the gin context key for the resolved admin scope.
const ContextScope = "admin_scope"

// ExistsFunc reports whether a resource id exists. Guards check existence
// before authorization so an absent resource answers 404, never 403.
type ExistsFunc func(ctx context.Context, id uuid.UUID) (bool, error)

// ScopeFromContext returns the scope stored by a guard middleware.
func ScopeFromContext(c *gin.Context) (Scope, bool) {
	v, ok := c.Get(ContextScope)
	if !ok {
		return Scope{}, false
	}
	scope, ok := v.(Scope)
	return scope, ok
}

// Identity returns the authenticated user id and root flag from context.
func Identity(c *gin.Context) (uuid.UUID, bool, bool) {
	v, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return uuid.Nil, false, false
	}
	userID, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil, false, false
	}
	return userID, c.GetBool(middleware.ContextIsRoot), true
}

func resolveScope(c *gin.Context, r *Resolver) (Scope, uuid.UUID, bool) {
	userID, isRoot, ok := Identity(c)
	if !ok {
		response.Unauthorized(c, "missing user context")
		c.Abort()
		return Scope{}, uuid.Nil, false
	}
	scope, err := r.Resolve(c.Request.Context(), userID, isRoot)
	if err != nil {
		response.Internal(c, "failed to resolve permissions")
		c.Abort()
		return Scope{}, uuid.Nil, false
	}
	return scope, userID, true
}

func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		c.Abort()
		return uuid.Nil, false
	}
	return id, true
}

func requireExists(c *gin.Context, exists ExistsFunc, id uuid.UUID, what string) bool {
	ok, err := exists(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "lookup failed")
		c.Abort()
		return false
	}
	if !ok {
		response.NotFound(c, what+" not found")
		c.Abort()
		return false
	}
	return true
}

func deny(c *gin.Context, err error) {
	if errors.Is(err, models.ErrNotFound) {
		response.NotFound(c, "not found")
	} else if err != nil {
		response.Internal(c, "authorization check failed")
	} else {
		response.Forbidden(c, "insufficient permissions")
	}
	c.Abort()
}

// RequireRoot allows only root admins.
func RequireRoot(r *Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, _, ok := resolveScope(c, r)
		if !ok {
			return
		}
		if scope.Type != AdminRoot {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Set(ContextScope, scope)
		c.Next()
	}
}

// RequireOrgAccess guards read routes under /organizations/:id.
func RequireOrgAccess(r *Resolver, a *Authorizer, exists ExistsFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID, ok := paramID(c, "id")
		if !ok {
			return
		}
		if !requireExists(c, exists, orgID, "organization") {
			return
		}
		scope, userID, ok := resolveScope(c, r)
		if !ok {
			return
		}
		allowed, err := a.CanAccessOrganization(c.Request.Context(), scope, userID, orgID)
		if err != nil || !allowed {
			deny(c, err)
			return
		}
		c.Set(ContextScope, scope)
		c.Next()
	}
}

// RequireOrgManage guards mutation routes under /organizations/:id.
func RequireOrgManage(r *Resolver, a *Authorizer, exists ExistsFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID, ok := paramID(c, "id")
		if !ok {
			return
		}
		if !requireExists(c, exists, orgID, "organization") {
			return
		}
		scope, _, ok := resolveScope(c, r)
		if !ok {
			return
		}
		if !a.CanManageOrganization(scope, orgID) {
			deny(c, nil)
			return
		}
		c.Set(ContextScope, scope)
		c.Next()
	}
}

// RequireClubAccess guards read routes under /clubs/:id.
func RequireClubAccess(r *Resolver, a *Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		clubID, ok := paramID(c, "id")
		if !ok {
			return
		}
		scope, userID, ok := resolveScope(c, r)
		if !ok {
			return
		}
		if !requireClubExists(c, a, clubID) {
			return
		}
		allowed, err := a.CanAccessClub(c.Request.Context(), scope, userID, clubID)
		if err != nil || !allowed {
			deny(c, err)
			return
		}
		c.Set(ContextScope, scope)
		c.Next()
	}
}

// RequireClubManage guards mutation routes under /clubs/:id.
func RequireClubManage(r *Resolver, a *Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		clubID, ok := paramID(c, "id")
		if !ok {
			return
		}
		scope, _, ok := resolveScope(c, r)
		if !ok {
			return
		}
		if !requireClubExists(c, a, clubID) {
			return
		}
		allowed, err := a.CanManageClub(c.Request.Context(), scope, clubID)
		if err != nil || !allowed {
			deny(c, err)
			return
		}
		c.Set(ContextScope, scope)
		c.Next()
	}
}

// RequirePaymentKeys guards the payment-key section of /clubs/:id.
func RequirePaymentKeys(r *Resolver, a *Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		clubID, ok := paramID(c, "id")
		if !ok {
			return
		}
		scope, _, ok := resolveScope(c, r)
		if !ok {
			return
		}
		if !requireClubExists(c, a, clubID) {
			return
		}
		if !a.CanManagePaymentKeys(scope, clubID) {
			deny(c, nil)
			return
		}
		c.Set(ContextScope, scope)
		c.Next()
	}
}

// RequireClubAdminAssign guards granting/revoking the club_admin role.
func RequireClubAdminAssign(r *Resolver, a *Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		clubID, ok := paramID(c, "id")
		if !ok {
			return
		}
		scope, _, ok := resolveScope(c, r)
		if !ok {
			return
		}
		if !requireClubExists(c, a, clubID) {
			return
		}
		allowed, err := a.CanAssignClubAdmins(c.Request.Context(), scope, clubID)
		if err != nil || !allowed {
			deny(c, err)
			return
		}
		c.Set(ContextScope, scope)
		c.Next()
	}
}

func requireClubExists(c *gin.Context, a *Authorizer, clubID uuid.UUID) bool {
	ok, err := a.ClubExists(c.Request.Context(), clubID)
	if err != nil {
		response.Internal(c, "lookup failed")
		c.Abort()
		return false
	}
	if !ok {
		response.NotFound(c, "club not found")
		c.Abort()
		return false
	}
	return true
}
