package access

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/clubcourt/backend/internal/models"
)

// Authorizer answers per-resource allow/deny questions for a resolved scope.
// Methods that need a parent-id lookup take a context; the rest are pure.
type Authorizer struct {
	dir Directory
}

// NewAuthorizer creates an authorizer backed by dir.
func NewAuthorizer(dir Directory) *Authorizer {
	return &Authorizer{dir: dir}
}

// CanManageOrganization allows root admins and organization admins whose
// scope contains the organization. Club-level roles never manage an
// organization.
func (a *Authorizer) CanManageOrganization(scope Scope, orgID uuid.UUID) bool {
	switch scope.Type {
	case AdminRoot:
		return true
	case AdminOrganization:
		return scope.Manages(orgID)
	}
	return false
}

// CanAccessOrganization is broader than manage: any membership in the
// organization, including plain members, grants read access.
func (a *Authorizer) CanAccessOrganization(ctx context.Context, scope Scope, userID, orgID uuid.UUID) (bool, error) {
	if a.CanManageOrganization(scope, orgID) {
		return true, nil
	}
	return a.dir.IsOrganizationMember(ctx, orgID, userID)
}

// CanManageClub allows root admins, owners/admins of that specific club, and
// the admin of the club's parent organization. The organization-admin branch
// needs one lookup (club -> organization); an unknown club surfaces
// models.ErrNotFound so the boundary can answer 404 instead of 403.
func (a *Authorizer) CanManageClub(ctx context.Context, scope Scope, clubID uuid.UUID) (bool, error) {
	switch scope.Type {
	case AdminRoot:
		return true, nil
	case AdminClubOwner, AdminClubAdmin:
		return scope.Manages(clubID), nil
	case AdminOrganization:
		orgID, err := a.dir.ClubOrganization(ctx, clubID)
		if err != nil {
			return false, err
		}
		return scope.Manages(orgID), nil
	}
	return false, nil
}

// CanAccessClub is CanManageClub plus read access for plain club members.
func (a *Authorizer) CanAccessClub(ctx context.Context, scope Scope, userID, clubID uuid.UUID) (bool, error) {
	ok, err := a.CanManageClub(ctx, scope, clubID)
	if err != nil || ok {
		return ok, err
	}
	return a.dir.IsClubMember(ctx, clubID, userID)
}

// CanManagePaymentKeys is stricter than CanManageClub: only root admins and
// the club's owner may touch payment keys. Organization admins and club
// admins are denied regardless of scope.
func (a *Authorizer) CanManagePaymentKeys(scope Scope, clubID uuid.UUID) bool {
	switch scope.Type {
	case AdminRoot:
		return true
	case AdminClubOwner:
		return scope.Manages(clubID)
	}
	return false
}

// ClubExists reports whether the club is known to the directory.
func (a *Authorizer) ClubExists(ctx context.Context, clubID uuid.UUID) (bool, error) {
	_, err := a.dir.ClubOrganization(ctx, clubID)
	if errors.Is(err, models.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CanAssignClubAdmins gates granting and revoking the club_admin role. Only
// root admins and the owning organization's admin qualify; a club admin may
// not appoint another club admin.
func (a *Authorizer) CanAssignClubAdmins(ctx context.Context, scope Scope, clubID uuid.UUID) (bool, error) {
	switch scope.Type {
	case AdminRoot:
		return true, nil
	case AdminOrganization:
		orgID, err := a.dir.ClubOrganization(ctx, clubID)
		if err != nil {
			return false, err
		}
		return scope.Manages(orgID), nil
	}
	return false, nil
}
