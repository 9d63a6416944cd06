package access

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/clubcourt/backend/internal/models"
)

func TestCanManageOrganization(t *testing.T) {
	orgID := uuid.New()
	otherOrg := uuid.New()
	a := NewAuthorizer(newFakeDirectory())

	require.True(t, a.CanManageOrganization(Scope{Type: AdminRoot}, orgID))
	require.True(t, a.CanManageOrganization(Scope{Type: AdminOrganization, ManagedIDs: []uuid.UUID{orgID}}, orgID))
	require.False(t, a.CanManageOrganization(Scope{Type: AdminOrganization, ManagedIDs: []uuid.UUID{otherOrg}}, orgID))
	require.False(t, a.CanManageOrganization(Scope{Type: AdminClubOwner, ManagedIDs: []uuid.UUID{orgID}}, orgID))
	require.False(t, a.CanManageOrganization(Scope{Type: AdminClubAdmin, ManagedIDs: []uuid.UUID{orgID}}, orgID))
	require.False(t, a.CanManageOrganization(Scope{Type: AdminNone}, orgID))
}

func TestCanAccessOrganizationIncludesPlainMembers(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	memberID := uuid.New()
	strangerID := uuid.New()

	dir := newFakeDirectory()
	dir.orgMembers[orgID] = map[uuid.UUID]bool{memberID: true}
	a := NewAuthorizer(dir)

	ok, err := a.CanAccessOrganization(ctx, Scope{Type: AdminNone}, memberID, orgID)
	require.Nil(t, err)
	require.True(t, ok)

	ok, err = a.CanAccessOrganization(ctx, Scope{Type: AdminNone}, strangerID, orgID)
	require.Nil(t, err)
	require.False(t, ok)
}

func TestCanManageClubScopedToParentOrganization(t *testing.T) {
	ctx := context.Background()
	org1 := uuid.New()
	org2 := uuid.New()
	clubInOrg1 := uuid.New()
	clubInOrg2 := uuid.New()

	dir := newFakeDirectory()
	dir.clubOrg[clubInOrg1] = org1
	dir.clubOrg[clubInOrg2] = org2
	a := NewAuthorizer(dir)

	orgAdmin := Scope{Type: AdminOrganization, ManagedIDs: []uuid.UUID{org1}}

	ok, err := a.CanManageClub(ctx, orgAdmin, clubInOrg1)
	require.Nil(t, err)
	require.True(t, ok)

	ok, err = a.CanManageClub(ctx, orgAdmin, clubInOrg2)
	require.Nil(t, err)
	require.False(t, ok)
}

func TestCanManageClubByClubRoles(t *testing.T) {
	ctx := context.Background()
	clubID := uuid.New()
	otherClub := uuid.New()

	dir := newFakeDirectory()
	dir.clubOrg[clubID] = uuid.New()
	a := NewAuthorizer(dir)

	for _, typ := range []AdminType{AdminClubOwner, AdminClubAdmin} {
		ok, err := a.CanManageClub(ctx, Scope{Type: typ, ManagedIDs: []uuid.UUID{clubID}}, clubID)
		require.Nil(t, err)
		require.True(t, ok, string(typ))

		ok, err = a.CanManageClub(ctx, Scope{Type: typ, ManagedIDs: []uuid.UUID{otherClub}}, clubID)
		require.Nil(t, err)
		require.False(t, ok, string(typ))
	}

	ok, err := a.CanManageClub(ctx, Scope{Type: AdminRoot}, clubID)
	require.Nil(t, err)
	require.True(t, ok)

	ok, err = a.CanManageClub(ctx, Scope{Type: AdminNone}, clubID)
	require.Nil(t, err)
	require.False(t, ok)
}

func TestCanManageClubUnknownClubIsNotFound(t *testing.T) {
	ctx := context.Background()
	a := NewAuthorizer(newFakeDirectory())
	orgAdmin := Scope{Type: AdminOrganization, ManagedIDs: []uuid.UUID{uuid.New()}}

	_, err := a.CanManageClub(ctx, orgAdmin, uuid.New())
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestCanAccessClubIncludesPlainMembers(t *testing.T) {
	ctx := context.Background()
	clubID := uuid.New()
	memberID := uuid.New()

	dir := newFakeDirectory()
	dir.clubOrg[clubID] = uuid.New()
	dir.clubMembers[clubID] = map[uuid.UUID]bool{memberID: true}
	a := NewAuthorizer(dir)

	ok, err := a.CanAccessClub(ctx, Scope{Type: AdminNone}, memberID, clubID)
	require.Nil(t, err)
	require.True(t, ok)

	// read access does not imply manage access
	ok, err = a.CanManageClub(ctx, Scope{Type: AdminNone}, clubID)
	require.Nil(t, err)
	require.False(t, ok)
}

func TestCanManagePaymentKeys(t *testing.T) {
	clubID := uuid.New()
	a := NewAuthorizer(newFakeDirectory())

	require.True(t, a.CanManagePaymentKeys(Scope{Type: AdminRoot}, clubID))
	require.True(t, a.CanManagePaymentKeys(Scope{Type: AdminClubOwner, ManagedIDs: []uuid.UUID{clubID}}, clubID))
	require.False(t, a.CanManagePaymentKeys(Scope{Type: AdminClubOwner, ManagedIDs: []uuid.UUID{uuid.New()}}, clubID))
	// organization_admin and club_admin are denied regardless of scope
	require.False(t, a.CanManagePaymentKeys(Scope{Type: AdminOrganization, ManagedIDs: []uuid.UUID{clubID}}, clubID))
	require.False(t, a.CanManagePaymentKeys(Scope{Type: AdminClubAdmin, ManagedIDs: []uuid.UUID{clubID}}, clubID))
	require.False(t, a.CanManagePaymentKeys(Scope{Type: AdminNone}, clubID))
}

func TestCanAssignClubAdmins(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	clubID := uuid.New()

	dir := newFakeDirectory()
	dir.clubOrg[clubID] = orgID
	a := NewAuthorizer(dir)

	ok, err := a.CanAssignClubAdmins(ctx, Scope{Type: AdminRoot}, clubID)
	require.Nil(t, err)
	require.True(t, ok)

	ok, err = a.CanAssignClubAdmins(ctx, Scope{Type: AdminOrganization, ManagedIDs: []uuid.UUID{orgID}}, clubID)
	require.Nil(t, err)
	require.True(t, ok)

	ok, err = a.CanAssignClubAdmins(ctx, Scope{Type: AdminOrganization, ManagedIDs: []uuid.UUID{uuid.New()}}, clubID)
	require.Nil(t, err)
	require.False(t, ok)

	// a club admin may not appoint another club admin; owners may not either
	for _, typ := range []AdminType{AdminClubOwner, AdminClubAdmin, AdminNone} {
		ok, err = a.CanAssignClubAdmins(ctx, Scope{Type: typ, ManagedIDs: []uuid.UUID{clubID}}, clubID)
		require.Nil(t, err)
		require.False(t, ok, string(typ))
	}
}

func TestClubExists(t *testing.T) {
	ctx := context.Background()
	clubID := uuid.New()

	dir := newFakeDirectory()
	dir.clubOrg[clubID] = uuid.New()
	a := NewAuthorizer(dir)

	ok, err := a.ClubExists(ctx, clubID)
	require.Nil(t, err)
	require.True(t, ok)

	ok, err = a.ClubExists(ctx, uuid.New())
	require.Nil(t, err)
	require.False(t, ok)
}
