package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Booking reserves a court for a half-open [StartTime, EndTime) interval.
// Both instants are UTC; for a fixed court no two non-cancelled bookings
// may overlap.
type Booking struct {
	ID        uuid.UUID     `json:"id"`
	CourtID   uuid.UUID     `json:"court_id"`
	ClubID    uuid.UUID     `json:"club_id"`
	UserID    uuid.UUID     `json:"user_id"`
	CoachID   *uuid.UUID    `json:"coach_id,omitempty"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Status    BookingStatus `json:"status"`
	Note      string        `json:"note,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
