package access

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/clubcourt/backend/internal/models"
)

type fakeDirectory struct {
	orgAdmin    map[uuid.UUID][]uuid.UUID            // user -> org ids
	clubsByRole map[string]map[uuid.UUID][]uuid.UUID // role -> user -> club ids
	clubOrg     map[uuid.UUID]uuid.UUID              // club -> parent org
	orgMembers  map[uuid.UUID]map[uuid.UUID]bool     // org -> user -> member
	clubMembers map[uuid.UUID]map[uuid.UUID]bool     // club -> user -> member
	err         error
	calls       int
}

func (f *fakeDirectory) OrganizationAdminIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.orgAdmin[userID], nil
}

func (f *fakeDirectory) ClubIDsByRole(ctx context.Context, userID uuid.UUID, role string) ([]uuid.UUID, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.clubsByRole[role][userID], nil
}

func (f *fakeDirectory) ClubOrganization(ctx context.Context, clubID uuid.UUID) (uuid.UUID, error) {
	f.calls++
	if f.err != nil {
		return uuid.Nil, f.err
	}
	orgID, ok := f.clubOrg[clubID]
	if !ok {
		return uuid.Nil, models.ErrNotFound
	}
	return orgID, nil
}

func (f *fakeDirectory) IsOrganizationMember(ctx context.Context, orgID, userID uuid.UUID) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.orgMembers[orgID][userID], nil
}

func (f *fakeDirectory) IsClubMember(ctx context.Context, clubID, userID uuid.UUID) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.clubMembers[clubID][userID], nil
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		orgAdmin: make(map[uuid.UUID][]uuid.UUID),
		clubsByRole: map[string]map[uuid.UUID][]uuid.UUID{
			models.ClubRoleOwner: {},
			models.ClubRoleAdmin: {},
		},
		clubOrg:     make(map[uuid.UUID]uuid.UUID),
		orgMembers:  make(map[uuid.UUID]map[uuid.UUID]bool),
		clubMembers: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func TestResolveRootShortCircuits(t *testing.T) {
	// directory fails on every call; root must never reach it
	dir := &fakeDirectory{err: errors.New("directory down")}
	resolver := NewResolver(dir)

	scope, err := resolver.Resolve(context.Background(), uuid.New(), true)
	require.Nil(t, err)
	require.Equal(t, AdminRoot, scope.Type)
	require.Empty(t, scope.ManagedIDs)
	require.Equal(t, 0, dir.calls)
}

func TestResolvePrecedence(t *testing.T) {
	userID := uuid.New()
	orgID := uuid.New()
	clubID := uuid.New()

	// user is organization_admin of one org AND club_admin of an unrelated
	// club; the higher role wins and the club does not surface
	dir := newFakeDirectory()
	dir.orgAdmin[userID] = []uuid.UUID{orgID}
	dir.clubsByRole[models.ClubRoleAdmin][userID] = []uuid.UUID{clubID}

	scope, err := NewResolver(dir).Resolve(context.Background(), userID, false)
	require.Nil(t, err)
	require.Equal(t, AdminOrganization, scope.Type)
	require.Equal(t, []uuid.UUID{orgID}, scope.ManagedIDs)
}

func TestResolveClubOwnerBeatsClubAdmin(t *testing.T) {
	userID := uuid.New()
	ownedID := uuid.New()
	adminID := uuid.New()

	dir := newFakeDirectory()
	dir.clubsByRole[models.ClubRoleOwner][userID] = []uuid.UUID{ownedID}
	dir.clubsByRole[models.ClubRoleAdmin][userID] = []uuid.UUID{adminID}

	scope, err := NewResolver(dir).Resolve(context.Background(), userID, false)
	require.Nil(t, err)
	require.Equal(t, AdminClubOwner, scope.Type)
	require.Equal(t, []uuid.UUID{ownedID}, scope.ManagedIDs)
}

func TestResolveClubAdmin(t *testing.T) {
	userID := uuid.New()
	clubID := uuid.New()

	dir := newFakeDirectory()
	dir.clubsByRole[models.ClubRoleAdmin][userID] = []uuid.UUID{clubID}

	scope, err := NewResolver(dir).Resolve(context.Background(), userID, false)
	require.Nil(t, err)
	require.Equal(t, AdminClubAdmin, scope.Type)
	require.Equal(t, []uuid.UUID{clubID}, scope.ManagedIDs)
}

func TestResolveOrdinaryUser(t *testing.T) {
	scope, err := NewResolver(newFakeDirectory()).Resolve(context.Background(), uuid.New(), false)
	require.Nil(t, err)
	require.Equal(t, AdminNone, scope.Type)
	require.Empty(t, scope.ManagedIDs)
}

func TestResolvePropagatesDirectoryError(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("directory down")}
	_, err := NewResolver(dir).Resolve(context.Background(), uuid.New(), false)
	require.NotNil(t, err)
}
