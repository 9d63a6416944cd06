package stats

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clubcourt/backend/internal/models"
)

type fakeClubs struct {
	club  *models.Club
	hours map[int]*models.OpeningHours
}

func (f *fakeClubs) GetByID(_ context.Context, id uuid.UUID) (*models.Club, error) {
	if f.club != nil && f.club.ID == id {
		return f.club, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeClubs) GetOpeningHoursForWeekday(_ context.Context, _ uuid.UUID, weekday int) (*models.OpeningHours, error) {
	if h, ok := f.hours[weekday]; ok {
		return h, nil
	}
	return nil, models.ErrNotFound
}

func TestOpenMinutes(t *testing.T) {
	club := &models.Club{ID: uuid.New()}
	h := &Handler{
		clubs: &fakeClubs{
			club: club,
			hours: map[int]*models.OpeningHours{
				// 2026-06-15 is a Monday.
				1: {OpenTime: "08:00", CloseTime: "22:00"},
			},
		},
		defaultTimezone: "Europe/Kyiv",
		logger:          zap.NewNop(),
	}

	dayStart := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	require.Equal(t, 14*60, h.openMinutes(context.Background(), club, dayStart, time.UTC))

	// Closed day: no schedule row for Sunday.
	sunday := time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)
	require.Equal(t, 0, h.openMinutes(context.Background(), club, sunday, time.UTC))
}

func TestOpenMinutesMalformedSchedule(t *testing.T) {
	club := &models.Club{ID: uuid.New()}
	h := &Handler{
		clubs: &fakeClubs{
			club:  club,
			hours: map[int]*models.OpeningHours{1: {OpenTime: "8am", CloseTime: "22:00"}},
		},
		defaultTimezone: "Europe/Kyiv",
		logger:          zap.NewNop(),
	}
	dayStart := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	require.Equal(t, 0, h.openMinutes(context.Background(), club, dayStart, time.UTC))
}
