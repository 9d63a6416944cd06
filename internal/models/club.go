package models

import (
	"time"

	"github.com/google/uuid"
)

// Club represents a sports club belonging to exactly one organization.
// Timezone is an IANA identifier; nil means the platform default applies.
type Club struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	Timezone       *string   `json:"timezone,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Club membership roles.
const (
	ClubRoleOwner  = "club_owner"
	ClubRoleAdmin  = "club_admin"
	ClubRoleMember = "member"
)

// ClubMember links a user to a club with a role.
// At most one row exists per (user, club) pair.
type ClubMember struct {
	ID        uuid.UUID `json:"id"`
	ClubID    uuid.UUID `json:"club_id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OpeningHours is a club's wall-clock schedule for one weekday.
// Times are club-local HH:MM strings; closed days have no row.
type OpeningHours struct {
	ID        uuid.UUID `json:"id"`
	ClubID    uuid.UUID `json:"club_id"`
	Weekday   int       `json:"weekday"` // 0 = Sunday .. 6 = Saturday
	OpenTime  string    `json:"open_time"`
	CloseTime string    `json:"close_time"`
}

// PaymentKeys holds a club's payment-provider key pair. Secret keys never
// leave the server unmasked.
type PaymentKeys struct {
	ClubID         uuid.UUID `json:"club_id"`
	PublishableKey string    `json:"publishable_key"`
	SecretKey      string    `json:"-"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GalleryImage is a club gallery entry backed by an S3 object.
type GalleryImage struct {
	ID        uuid.UUID `json:"id"`
	ClubID    uuid.UUID `json:"club_id"`
	ObjectKey string    `json:"object_key"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}
