package matching

import "time"

// DayWindow returns the [start, end) bounds of the calendar day containing now in loc.
// A nil loc means UTC.
func DayWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}

	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	return start, start.AddDate(0, 0, 1)
}

// Remaining returns how long is left until interval has elapsed since last, or zero.
func Remaining(last, now time.Time, interval time.Duration) time.Duration {
	wait := last.Add(interval).Sub(now)
	if wait < 0 {
		return 0
	}

	return wait
}
