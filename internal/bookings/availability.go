package bookings

import (
	"time"

	"github.com/clubcourt/backend/internal/models"
	"github.com/clubcourt/backend/internal/timeutil"
)

// Slot is one bookable step of a court's day grid. Start and End are UTC;
// the local fields are the club's wall clock for display.
type Slot struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	StartLocal string    `json:"start_local"`
	EndLocal   string    `json:"end_local"`
	Available  bool      `json:"available"`
}

// Interval is a half-open [Start, End) occupied range in UTC.
type Interval struct {
	Start time.Time
	End   time.Time
}

// BuildSlots lays a slot grid over [open, close) stepping slotMinutes, and
// marks a slot unavailable when it overlaps any busy interval. The last
// slot is dropped if it would run past close.
func BuildSlots(open, close time.Time, slotMinutes int, busy []Interval, loc *time.Location) []Slot {
	if slotMinutes <= 0 || !open.Before(close) {
		return nil
	}
	slots := make([]Slot, 0, int(close.Sub(open).Minutes())/slotMinutes)
	for cur := open; ; cur = timeutil.AddMinutes(cur, slotMinutes) {
		end := timeutil.AddMinutes(cur, slotMinutes)
		if end.After(close) {
			break
		}
		s := Slot{
			Start:      cur,
			End:        end,
			StartLocal: timeutil.FormatTime(cur, loc),
			EndLocal:   timeutil.FormatTime(end, loc),
			Available:  true,
		}
		for _, b := range busy {
			if timeutil.RangesOverlap(cur, end, b.Start, b.End) {
				s.Available = false
				break
			}
		}
		slots = append(slots, s)
	}
	return slots
}

// BusyIntervals converts bookings to occupied intervals.
func BusyIntervals(list []*models.Booking) []Interval {
	out := make([]Interval, 0, len(list))
	for _, b := range list {
		out = append(out, Interval{Start: b.StartTime, End: b.EndTime})
	}
	return out
}
