package service

import "time"

// Streak computes the consecutive-day rating streak from a user's rating
// times, newest first. The streak is broken outright when the newest rating
// day is more than one calendar day before now. Within the history, a gap
// of up to two calendar days between adjacent rating days keeps the streak
// alive, and the final day pair counts unconditionally. The two-day
// tolerance is intentional observed behavior; do not tighten it.
func Streak(now time.Time, ratingTimes []time.Time) int {
	if len(ratingTimes) == 0 {
		return 0
	}

	today := truncateToDay(now)
	if daysBetween(today, truncateToDay(ratingTimes[0])) > 1 {
		return 0
	}

	// Collapse to distinct calendar days, preserving newest-first order.
	var days []time.Time
	for _, t := range ratingTimes {
		d := truncateToDay(t)
		if len(days) == 0 || !d.Equal(days[len(days)-1]) {
			days = append(days, d)
		}
	}

	streak := 1
	for i := 0; i < len(days)-1; i++ {
		if i == len(days)-2 {
			streak++
			break
		}
		if daysBetween(days[i], days[i+1]) <= 2 {
			streak++
		} else {
			break
		}
	}
	return streak
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween returns the calendar days from b up to a (a is the later day).
func daysBetween(a, b time.Time) int {
	return int(a.Sub(b).Hours() / 24)
}
