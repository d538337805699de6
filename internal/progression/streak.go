package progression

import "time"

// startOfDay truncates a timestamp to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// UpdateStreak applies one qualifying activity event to the streak counters
// and returns the new (currentStreak, longestStreak, lastActivityDate).
//
// The day difference is measured between the date-truncated lastActivity and
// now. Same calendar day leaves both counters alone; the next calendar day
// extends the streak; a gap resets currentStreak to 1. A backdated event
// (negative difference) leaves the counters untouched. lastActivityDate
// always advances to now: it records "last touched", not "last streak day".
//
// Call this at most once per qualifying activity event, never on reads.
func UpdateStreak(lastActivity, now time.Time, currentStreak, longestStreak int) (int, int, time.Time) {
	daysDiff := int(startOfDay(now).Sub(startOfDay(lastActivity)).Hours() / 24)

	switch {
	case daysDiff == 0:
		// Already counted today.
	case daysDiff == 1:
		currentStreak++
		if currentStreak > longestStreak {
			longestStreak = currentStreak
		}
	case daysDiff > 1:
		currentStreak = 1
		if longestStreak == 0 {
			longestStreak = 1
		}
	default:
		// Backdated event or clock skew: counters stay as they are.
	}

	return currentStreak, longestStreak, now
}
