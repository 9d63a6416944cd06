package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents a tenant that owns clubs.
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Organization membership roles.
const (
	OrgRoleAdmin  = "organization_admin"
	OrgRoleMember = "member"
)

// OrganizationMember links a user to an organization with a role.
// At most one row exists per (user, organization) pair.
type OrganizationMember struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	UserID         uuid.UUID `json:"user_id"`
	Role           string    `json:"role"`
	IsPrimaryOwner bool      `json:"is_primary_owner"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
