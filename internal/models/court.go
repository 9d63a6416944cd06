package models

import (
	"time"

	"github.com/google/uuid"
)

// Court represents a bookable court within a club.
type Court struct {
	ID             uuid.UUID `json:"id"`
	ClubID         uuid.UUID `json:"club_id"`
	Name           string    `json:"name"`
	Surface        string    `json:"surface"`
	Indoor         bool      `json:"indoor"`
	SlotMinutes    int       `json:"slot_minutes"`
	PriceCentsHour int       `json:"price_cents_hour"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Coach represents a coach attached to a club.
type Coach struct {
	ID        uuid.UUID `json:"id"`
	ClubID    uuid.UUID `json:"club_id"`
	FullName  string    `json:"full_name"`
	Bio       string    `json:"bio"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
