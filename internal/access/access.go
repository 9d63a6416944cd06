// Package access resolves administrative roles and answers authorization
// questions for organizations and clubs. Decisions are booleans; the HTTP
// boundary maps them to 401/403 and keeps 404 separate.
package access

import (
	"context"

	"github.com/google/uuid"

	"github.com/clubcourt/backend/internal/models"
)

// AdminType classifies the caller's administrative standing. Exactly one
// applies per request, following strict precedence:
// root > organization_admin > club_owner > club_admin > none.
type AdminType string

const (
	AdminRoot         AdminType = "root_admin"
	AdminOrganization AdminType = "organization_admin"
	AdminClubOwner    AdminType = "club_owner"
	AdminClubAdmin    AdminType = "club_admin"
	AdminNone         AdminType = ""
)

// Scope is the caller's resolved administrative view. ManagedIDs holds
// organization ids for organization admins and club ids for club owners and
// admins. It is derived fresh per request and never persisted.
type Scope struct {
	Type       AdminType
	ManagedIDs []uuid.UUID
}

// Manages reports whether id is in the scope's managed set.
func (s Scope) Manages(id uuid.UUID) bool {
	for _, m := range s.ManagedIDs {
		if m == id {
			return true
		}
	}
	return false
}

// Directory is the read-only membership lookup the resolver and guards
// depend on. ClubOrganization returns models.ErrNotFound for unknown clubs.
type Directory interface {
	OrganizationAdminIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ClubIDsByRole(ctx context.Context, userID uuid.UUID, role string) ([]uuid.UUID, error)
	ClubOrganization(ctx context.Context, clubID uuid.UUID) (uuid.UUID, error)
	IsOrganizationMember(ctx context.Context, orgID, userID uuid.UUID) (bool, error)
	IsClubMember(ctx context.Context, clubID, userID uuid.UUID) (bool, error)
}

// Resolver classifies users into admin scopes.
type Resolver struct {
	dir Directory
}

// NewResolver creates a role resolver backed by dir.
func NewResolver(dir Directory) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve determines the caller's admin type and managed ids. Root users
// short-circuit before any directory lookup: a root admin keeps access even
// when membership rows are absent or the directory is unavailable. A caller
// holding several roles is classified by the highest one only; lower-role
// memberships do not surface in ManagedIDs.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID, isRoot bool) (Scope, error) {
	if isRoot {
		return Scope{Type: AdminRoot}, nil
	}

	orgIDs, err := r.dir.OrganizationAdminIDs(ctx, userID)
	if err != nil {
		return Scope{}, err
	}
	if len(orgIDs) > 0 {
		return Scope{Type: AdminOrganization, ManagedIDs: orgIDs}, nil
	}

	ownerIDs, err := r.dir.ClubIDsByRole(ctx, userID, models.ClubRoleOwner)
	if err != nil {
		return Scope{}, err
	}
	if len(ownerIDs) > 0 {
		return Scope{Type: AdminClubOwner, ManagedIDs: ownerIDs}, nil
	}

	adminIDs, err := r.dir.ClubIDsByRole(ctx, userID, models.ClubRoleAdmin)
	if err != nil {
		return Scope{}, err
	}
	if len(adminIDs) > 0 {
		return Scope{Type: AdminClubAdmin, ManagedIDs: adminIDs}, nil
	}

	return Scope{Type: AdminNone}, nil
}
