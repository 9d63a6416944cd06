package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseUTCLiteralRoundTrip(t *testing.T) {
	cases := []struct {
		date string
		hhmm string
		want string
	}{
		{"2026-01-06", "23:00", "2026-01-06T23:00:00Z"},
		{"2026-02-28", "00:00", "2026-02-28T00:00:00Z"},
		{"2024-02-29", "12:30", "2024-02-29T12:30:00Z"}, // leap day
		{"2026-12-31", "23:59", "2026-12-31T23:59:00Z"},
	}
	for _, c := range cases {
		got, err := ParseUTC(c.date, c.hhmm)
		require.Nil(t, err, "parse %s %s", c.date, c.hhmm)
		require.Equal(t, time.UTC, got.Location())
		require.Equal(t, c.want, got.Format("2006-01-02T15:04:05Z"))
	}
}

func TestParseUTCRejectsMalformedInput(t *testing.T) {
	bad := []struct {
		date string
		hhmm string
	}{
		{"2026-1-06", "10:00"},  // month not zero-padded
		{"26-01-06", "10:00"},   // two-digit year
		{"2026/01/06", "10:00"}, // wrong separator
		{"2026-13-01", "10:00"}, // month out of range
		{"2026-02-30", "10:00"}, // day does not exist
		{"2026-00-10", "10:00"},
		{"2026-01-06", "24:00"},
		{"2026-01-06", "9:00"}, // hour not zero-padded
		{"2026-01-06", "09:60"},
		{"2026-01-06", "09:5"},
		{"2026-01-06", ""},
		{"", "10:00"},
	}
	for _, c := range bad {
		_, err := ParseUTC(c.date, c.hhmm)
		require.NotNil(t, err, "expected error for %q %q", c.date, c.hhmm)
		require.ErrorIs(t, err, ErrInvalidFormat)
	}
}

func TestAddMinutes(t *testing.T) {
	base, err := ParseUTC("2026-01-06", "23:30")
	require.Nil(t, err)

	require.Equal(t, base, AddMinutes(base, 0))
	require.Equal(t, "2026-01-06T23:31:00Z", AddMinutes(base, 1).Format(time.RFC3339))
	// crosses midnight
	require.Equal(t, "2026-01-07T00:30:00Z", AddMinutes(base, 60).Format(time.RFC3339))
	// full day
	require.Equal(t, "2026-01-07T23:30:00Z", AddMinutes(base, 1440).Format(time.RFC3339))
	require.Equal(t, "2026-01-06T22:30:00Z", AddMinutes(base, -60).Format(time.RFC3339))
}

func TestRangesOverlap(t *testing.T) {
	at := func(hhmm string) time.Time {
		v, err := ParseUTC("2026-01-06", hhmm)
		require.Nil(t, err)
		return v
	}
	cases := []struct {
		name                   string
		aStart, aEnd, bStart, bEnd time.Time
		want                   bool
	}{
		{"disjoint", at("08:00"), at("09:00"), at("10:00"), at("11:00"), false},
		{"touching boundary is not overlap", at("08:00"), at("09:00"), at("09:00"), at("10:00"), false},
		{"partial overlap", at("08:00"), at("09:30"), at("09:00"), at("10:00"), true},
		{"containment", at("08:00"), at("12:00"), at("09:00"), at("10:00"), true},
		{"identical", at("08:00"), at("09:00"), at("08:00"), at("09:00"), true},
	}
	for _, c := range cases {
		require.Equal(t, c.want, RangesOverlap(c.aStart, c.aEnd, c.bStart, c.bEnd), c.name)
		// overlap is symmetric
		require.Equal(t, c.want, RangesOverlap(c.bStart, c.bEnd, c.aStart, c.aEnd), c.name+" (swapped)")
	}
}

func TestRangesOverlapAcrossMidnight(t *testing.T) {
	aStart, _ := ParseUTC("2026-01-06", "23:00")
	aEnd, _ := ParseUTC("2026-01-07", "01:00")
	bStart, _ := ParseUTC("2026-01-07", "00:00")
	bEnd, _ := ParseUTC("2026-01-07", "01:00")
	require.True(t, RangesOverlap(aStart, aEnd, bStart, bEnd))
}

func TestDayBounds(t *testing.T) {
	start, end, err := DayBounds("2026-01-07")
	require.Nil(t, err)
	require.Equal(t, "2026-01-07T00:00:00Z", start.Format(time.RFC3339))
	require.Equal(t, "2026-01-07 23:59:59.999", end.Format("2006-01-02 15:04:05.000"))
	require.Equal(t, 24*time.Hour-time.Millisecond, end.Sub(start))

	// every instant of the literal day is contained, neighbours are not
	inside, _ := ParseUTC("2026-01-07", "12:00")
	require.True(t, !inside.Before(start) && inside.Before(end.Add(time.Millisecond)))
	before, _ := ParseUTC("2026-01-06", "23:59")
	require.True(t, before.Before(start))
	after, _ := ParseUTC("2026-01-08", "00:00")
	require.True(t, after.After(end))

	_, _, err = DayBounds("2026-1-7")
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestIsValidUTCInstant(t *testing.T) {
	valid := []string{
		"2026-01-06T23:00:00Z",
		"2026-01-06T23:00:00.1Z",
		"2026-01-06T23:00:00.12Z",
		"2026-01-06T23:00:00.123Z",
		"2024-02-29T00:00:00Z",
	}
	for _, s := range valid {
		require.True(t, IsValidUTCInstant(s), s)
	}
	invalid := []string{
		"2026-01-06T23:00:00+02:00", // numeric offset instead of Z
		"2026-01-06T23:00:00-00:00",
		"2026-01-06T23:00:00",  // no zone
		"2026-01-06T23:00:00z", // lowercase
		"2026-01-06 23:00:00Z", // missing T
		"2026-01-06T23:00:00.1234Z",
		"2026-02-30T00:00:00Z", // calendar-invalid
		"2026-13-01T00:00:00Z",
		"2026-01-06T24:00:00Z",
		"not a timestamp",
		"",
	}
	for _, s := range invalid {
		require.False(t, IsValidUTCInstant(s), s)
	}
}

func TestResolveZone(t *testing.T) {
	loc, substituted := ResolveZone("Europe/Kyiv", "UTC")
	require.False(t, substituted)
	require.Equal(t, "Europe/Kyiv", loc.String())

	cases := []string{"", "UTC+2", "Not/AZone", "Local", "Kyiv"}
	for _, candidate := range cases {
		loc, substituted = ResolveZone(candidate, "Europe/Kyiv")
		require.True(t, substituted, "candidate %q", candidate)
		require.Equal(t, "Europe/Kyiv", loc.String())
	}

	// unloadable fallback degrades to UTC
	loc, substituted = ResolveZone("bogus", "also-bogus")
	require.True(t, substituted)
	require.Equal(t, time.UTC, loc)
}

func TestToUTCHonoursZoneOffset(t *testing.T) {
	kyiv, substituted := ResolveZone("Europe/Kyiv", "UTC")
	require.False(t, substituted)

	// winter (UTC+2) vs summer (UTC+3)
	winter, err := ToUTC("2026-01-15", "10:00", kyiv)
	require.Nil(t, err)
	require.Equal(t, "2026-01-15T08:00:00Z", winter.Format(time.RFC3339))

	summer, err := ToUTC("2026-07-15", "10:00", kyiv)
	require.Nil(t, err)
	require.Equal(t, "2026-07-15T07:00:00Z", summer.Format(time.RFC3339))

	_, err = ToUTC("2026-07-15", "25:00", kyiv)
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestZoneRoundTrip(t *testing.T) {
	kyiv, _ := ResolveZone("Europe/Kyiv", "UTC")
	dates := []string{"2026-01-15", "2026-07-15", "2026-03-30", "2026-10-26"}
	for _, d := range dates {
		instant, err := ToUTC(d, "14:45", kyiv)
		require.Nil(t, err, d)
		require.Equal(t, d, FormatDate(instant, kyiv))
		require.Equal(t, "14:45", FormatTime(instant, kyiv))
		require.Equal(t, d+" 14:45", FormatDateTime(instant, kyiv))
	}
}

func TestDSTTransitionDoesNotCollide(t *testing.T) {
	kyiv, _ := ResolveZone("Europe/Kyiv", "UTC")

	// Kyiv springs forward on 2026-03-29. Identical wall-clock starts on
	// either side of the transition map to different UTC offsets.
	before, err := ToUTC("2026-03-28", "12:00", kyiv)
	require.Nil(t, err)
	after, err := ToUTC("2026-03-29", "12:00", kyiv)
	require.Nil(t, err)

	require.Equal(t, "2026-03-28T10:00:00Z", before.Format(time.RFC3339))
	require.Equal(t, "2026-03-29T09:00:00Z", after.Format(time.RFC3339))

	require.False(t, RangesOverlap(before, AddMinutes(before, 60), after, AddMinutes(after, 60)))
}
