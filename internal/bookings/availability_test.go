package bookings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/clubcourt/backend/internal/timeutil"
)

func mustUTC(t *testing.T, date, clock string) time.Time {
	t.Helper()
	ts, err := timeutil.ParseUTC(date, clock)
	require.NoError(t, err)
	return ts
}

func TestBuildSlotsGrid(t *testing.T) {
	open := mustUTC(t, "2026-06-15", "08:00")
	close := mustUTC(t, "2026-06-15", "10:00")

	slots := BuildSlots(open, close, 60, nil, time.UTC)
	require.Len(t, slots, 2)
	require.Equal(t, open, slots[0].Start)
	require.Equal(t, mustUTC(t, "2026-06-15", "09:00"), slots[0].End)
	require.Equal(t, close, slots[1].End)
	for _, s := range slots {
		require.True(t, s.Available)
	}
}

func TestBuildSlotsDropsPartialTrailingSlot(t *testing.T) {
	open := mustUTC(t, "2026-06-15", "08:00")
	close := mustUTC(t, "2026-06-15", "09:30")

	slots := BuildSlots(open, close, 60, nil, time.UTC)
	require.Len(t, slots, 1)
	require.Equal(t, mustUTC(t, "2026-06-15", "09:00"), slots[0].End)
}

func TestBuildSlotsMarksOverlaps(t *testing.T) {
	open := mustUTC(t, "2026-06-15", "08:00")
	close := mustUTC(t, "2026-06-15", "12:00")
	busy := []Interval{
		{Start: mustUTC(t, "2026-06-15", "09:00"), End: mustUTC(t, "2026-06-15", "10:30")},
	}

	slots := BuildSlots(open, close, 60, busy, time.UTC)
	require.Len(t, slots, 4)
	require.True(t, slots[0].Available)  // 08-09 touches 09:00 but half-open
	require.False(t, slots[1].Available) // 09-10
	require.False(t, slots[2].Available) // 10-11 overlaps until 10:30
	require.True(t, slots[3].Available)  // 11-12
}

func TestBuildSlotsLocalWallClock(t *testing.T) {
	kyiv, err := time.LoadLocation("Europe/Kyiv")
	require.NoError(t, err)

	// Kyiv summer is UTC+3: 07:00Z is 10:00 local.
	open := mustUTC(t, "2026-06-15", "07:00")
	close := mustUTC(t, "2026-06-15", "09:00")

	slots := BuildSlots(open, close, 60, nil, kyiv)
	require.Len(t, slots, 2)
	require.Equal(t, "10:00", slots[0].StartLocal)
	require.Equal(t, "11:00", slots[0].EndLocal)
	require.Equal(t, "12:00", slots[1].EndLocal)
}

func TestBuildSlotsDegenerateInputs(t *testing.T) {
	open := mustUTC(t, "2026-06-15", "08:00")
	require.Nil(t, BuildSlots(open, open, 60, nil, time.UTC))
	require.Nil(t, BuildSlots(open.Add(time.Hour), open, 60, nil, time.UTC))
	require.Nil(t, BuildSlots(open, open.Add(time.Hour), 0, nil, time.UTC))
}
