// Package timeutil is the booking time engine. All conflict and availability
// comparisons happen on UTC instants.
//
// Two operations look alike but must never be confused: ParseUTC treats its
// literal digits as an already-UTC reading, while ToUTC interprets the same
// digits as a wall-clock reading in a specific IANA zone and returns the
// corresponding UTC instant. Bookings entered by humans go through ToUTC;
// UTC-based grids and fixtures go through ParseUTC.
package timeutil

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrInvalidFormat reports a malformed or calendar-invalid date/time literal.
var ErrInvalidFormat = errors.New("invalid date/time format")

var (
	dateRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockRe   = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	instantRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T([01]\d|2[0-3]):[0-5]\d:[0-5]\d(\.\d{1,3})?Z$`)
)

const (
	layoutDate     = "2006-01-02"
	layoutClock    = "15:04"
	layoutDateTime = "2006-01-02 15:04"
)

// ParseUTC builds a UTC instant directly from literal digits: the result's
// UTC wall-clock fields equal dateStr/timeStr verbatim. dateStr must be
// YYYY-MM-DD and timeStr HH:MM, zero-padded and calendar-valid.
func ParseUTC(dateStr, timeStr string) (time.Time, error) {
	if !dateRe.MatchString(dateStr) {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidFormat, dateStr)
	}
	if !clockRe.MatchString(timeStr) {
		return time.Time{}, fmt.Errorf("%w: time %q", ErrInvalidFormat, timeStr)
	}
	t, err := time.Parse(layoutDateTime, dateStr+" "+timeStr)
	if err != nil {
		// pattern matched but the calendar date does not exist (Feb 30 etc.)
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidFormat, dateStr)
	}
	return t, nil
}

// AddMinutes returns t shifted by the given number of minutes. Spans of any
// length are fine, including zero and full days.
func AddMinutes(t time.Time, minutes int) time.Time {
	return t.Add(time.Duration(minutes) * time.Minute)
}

// RangesOverlap reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Intervals that touch exactly at a boundary do
// not overlap, so back-to-back bookings are never conflicts.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// DayBounds returns midnight UTC and 23:59:59.999 UTC of the literal date.
func DayBounds(dateStr string) (start, end time.Time, err error) {
	start, err = ParseUTC(dateStr, "00:00")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end = start.Add(24*time.Hour - time.Millisecond)
	return start, end, nil
}

// IsValidUTCInstant reports whether s is a full ISO-8601 UTC instant with an
// explicit Z suffix (fractional seconds optional, 1-3 digits) naming a real
// calendar date. Numeric offsets such as +02:00 are rejected.
func IsValidUTCInstant(s string) bool {
	if !instantRe.MatchString(s) {
		return false
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

// ResolveZone returns the location for candidate when it is a loadable IANA
// identifier, otherwise the fallback zone. The second return value reports
// whether the fallback was substituted, so callers can log it. Offset
// strings ("UTC+2") and unknown names count as invalid; an unloadable
// fallback degrades to UTC.
func ResolveZone(candidate, fallback string) (*time.Location, bool) {
	if candidate != "" && candidate != "Local" {
		if loc, err := time.LoadLocation(candidate); err == nil {
			return loc, false
		}
	}
	loc, err := time.LoadLocation(fallback)
	if err != nil {
		return time.UTC, true
	}
	return loc, true
}

// ToUTC interprets dateStr/timeStr as a wall-clock reading in loc and
// returns the corresponding UTC instant, honouring the zone's offset on
// that date (including DST). Format rules match ParseUTC.
func ToUTC(dateStr, timeStr string, loc *time.Location) (time.Time, error) {
	if !dateRe.MatchString(dateStr) {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidFormat, dateStr)
	}
	if !clockRe.MatchString(timeStr) {
		return time.Time{}, fmt.Errorf("%w: time %q", ErrInvalidFormat, timeStr)
	}
	t, err := time.ParseInLocation(layoutDateTime, dateStr+" "+timeStr, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidFormat, dateStr)
	}
	return t.UTC(), nil
}

// FormatDate renders the instant's calendar date in loc.
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(layoutDate)
}

// FormatTime renders the instant's HH:MM wall clock in loc.
func FormatTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(layoutClock)
}

// FormatDateTime renders date and time in loc separated by a space.
func FormatDateTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(layoutDateTime)
}
