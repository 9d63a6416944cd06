package models

import (
	"time"

	"github.com/google/uuid"
)

// Invite kinds determine which membership an accepted invite creates.
const (
	InviteOrgAdmin  = "organization_admin"
	InviteClubOwner = "club_owner"
	InviteClubAdmin = "club_admin"
)

// Invite is an admin invitation. Only the SHA-256 digest of the token is
// stored; the plain token is shown once at creation.
type Invite struct {
	ID         uuid.UUID  `json:"id"`
	Kind       string     `json:"kind"`
	TargetID   uuid.UUID  `json:"target_id"` // organization or club id per Kind
	Email      string     `json:"email"`
	TokenHash  string     `json:"-"`
	InvitedBy  uuid.UUID  `json:"invited_by"`
	ExpiresAt  time.Time  `json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
