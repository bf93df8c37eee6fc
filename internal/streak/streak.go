// Package streak computes consecutive-day completion streaks.
//
// Timestamps are truncated to calendar days in a given location before any
// counting, so several completions on one day contribute a single day.
package streak

import (
	"time"

	"github.com/julianstephens/dailyhabits/internal/constants"
)

// Day is a calendar date with no time-of-day or location.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar day of t as observed in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Day: d}
}

// AddDays returns the day n days after d (n may be negative).
// Arithmetic is done in UTC so DST transitions never skip or repeat a day.
func (d Day) AddDays(n int) Day {
	y, m, dd := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n).Date()
	return Day{Year: y, Month: m, Day: dd}
}

// Before reports whether d is earlier than other.
func (d Day) Before(other Day) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Day) String() string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format(constants.DateFormat)
}

// Set is a deduplicated collection of calendar days.
type Set map[Day]struct{}

// Days truncates timestamps to distinct calendar days in loc.
func Days(timestamps []time.Time, loc *time.Location) Set {
	set := make(Set, len(timestamps))
	for _, ts := range timestamps {
		set[DayOf(ts, loc)] = struct{}{}
	}
	return set
}

// Has reports whether d is in the set.
func (s Set) Has(d Day) bool {
	_, ok := s[d]
	return ok
}

// Current counts consecutive days present in days, walking backward from today.
// A missing today ends the walk immediately, even when yesterday is present.
func Current(days Set, today Day) int {
	if len(days) == 0 {
		return 0
	}

	count := 0
	for day := today; days.Has(day); day = day.AddDays(-1) {
		count++
	}
	return count
}

// FromTimestamps is Days followed by Current, with today taken from now in loc.
func FromTimestamps(timestamps []time.Time, now time.Time, loc *time.Location) int {
	return Current(Days(timestamps, loc), DayOf(now, loc))
}
