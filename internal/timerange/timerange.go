// Package timerange resolves named date-range tags (today, thisWeek, ...)
// to concrete timestamp windows relative to a reference instant.
package timerange

import "time"

const lastTick = 999 * int(time.Millisecond)

// Window resolves tag to the inclusive [start, end] window it names,
// computed in now's location. Weeks start on Sunday. An empty or
// unrecognized tag yields ok=false, meaning no date filter applies.
func Window(tag string, now time.Time) (start, end time.Time, ok bool) {
	switch tag {
	case "today":
		return startOfDay(now), endOfDay(now), true
	case "thisWeek":
		first := now.AddDate(0, 0, -int(now.Weekday()))
		return startOfDay(first), endOfDay(first.AddDate(0, 0, 6)), true
	case "lastWeek":
		first := now.AddDate(0, 0, -int(now.Weekday())-7)
		return startOfDay(first), endOfDay(first.AddDate(0, 0, 6)), true
	case "thisMonth":
		y, m, _ := now.Date()
		start = time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
		// Day 0 of the next month normalizes to this month's last day.
		end = time.Date(y, m+1, 0, 23, 59, 59, lastTick, now.Location())
		return start, end, true
	case "lastMonth":
		y, m, _ := now.Date()
		start = time.Date(y, m-1, 1, 0, 0, 0, 0, now.Location())
		end = time.Date(y, m, 0, 23, 59, 59, lastTick, now.Location())
		return start, end, true
	}
	return time.Time{}, time.Time{}, false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, lastTick, t.Location())
}
