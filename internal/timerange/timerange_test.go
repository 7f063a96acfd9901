package timerange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d, hh, mm, ss, ms int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, ms*int(time.Millisecond), time.Local)
}

func TestWindow(t *testing.T) {
	// Wednesday.
	now := date(2026, time.August, 26, 15, 4, 5, 0)

	tests := []struct {
		tag   string
		start time.Time
		end   time.Time
	}{
		{"today", date(2026, time.August, 26, 0, 0, 0, 0), date(2026, time.August, 26, 23, 59, 59, 999)},
		{"thisWeek", date(2026, time.August, 23, 0, 0, 0, 0), date(2026, time.August, 29, 23, 59, 59, 999)},
		{"lastWeek", date(2026, time.August, 16, 0, 0, 0, 0), date(2026, time.August, 22, 23, 59, 59, 999)},
		{"thisMonth", date(2026, time.August, 1, 0, 0, 0, 0), date(2026, time.August, 31, 23, 59, 59, 999)},
		{"lastMonth", date(2026, time.July, 1, 0, 0, 0, 0), date(2026, time.July, 31, 23, 59, 59, 999)},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			start, end, ok := Window(tt.tag, now)
			require.True(t, ok)
			require.True(t, start.Equal(tt.start), "start %s != %s", start, tt.start)
			require.True(t, end.Equal(tt.end), "end %s != %s", end, tt.end)
		})
	}
}

func TestWindowUnknownTagMeansNoFilter(t *testing.T) {
	now := time.Now()
	for _, tag := range []string{"", "tommorow", "ThisWeek", "last-week"} {
		_, _, ok := Window(tag, now)
		require.False(t, ok, "tag %q should not resolve", tag)
	}
}

func TestWindowTodayExcludesAdjacentDays(t *testing.T) {
	now := date(2026, time.August, 26, 12, 0, 0, 0)
	start, end, ok := Window("today", now)
	require.True(t, ok)

	lateYesterday := date(2026, time.August, 25, 23, 59, 59, 999)
	nextMidnight := date(2026, time.August, 27, 0, 0, 0, 0)
	require.True(t, lateYesterday.Before(start))
	require.True(t, end.Before(nextMidnight))
}

func TestWindowWeekCrossesMonthBoundary(t *testing.T) {
	// Saturday Aug 1: the week began on Sunday July 26.
	now := date(2026, time.August, 1, 9, 0, 0, 0)
	start, end, ok := Window("thisWeek", now)
	require.True(t, ok)
	require.True(t, start.Equal(date(2026, time.July, 26, 0, 0, 0, 0)))
	require.True(t, end.Equal(date(2026, time.August, 1, 23, 59, 59, 999)))
}

func TestWindowMonthCrossesYearBoundary(t *testing.T) {
	now := date(2026, time.January, 15, 9, 0, 0, 0)
	start, end, ok := Window("lastMonth", now)
	require.True(t, ok)
	require.True(t, start.Equal(date(2025, time.December, 1, 0, 0, 0, 0)))
	require.True(t, end.Equal(date(2025, time.December, 31, 23, 59, 59, 999)))
}

func TestWindowLeapFebruary(t *testing.T) {
	now := date(2028, time.March, 10, 9, 0, 0, 0)
	start, end, ok := Window("lastMonth", now)
	require.True(t, ok)
	require.True(t, start.Equal(date(2028, time.February, 1, 0, 0, 0, 0)))
	require.True(t, end.Equal(date(2028, time.February, 29, 23, 59, 59, 999)))
}
