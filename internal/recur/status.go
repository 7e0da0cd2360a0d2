package recur

import (
	"time"

	"timeplan/internal/clock"
)

// Status is the period-completion state of a habit. It is always derived
// from (pattern, last completed, today); the persisted column is only a
// cache that the store overwrites on read when it disagrees.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// CurrentPeriodStatus reports whether a completion on lastCompleted still
// counts for the period containing today.
//
// Weeks start on Sunday. Annual compares calendar years only: a completion
// any time this year keeps an annual habit Completed until January 1. That
// looseness matches the historical behavior and is kept deliberately.
func CurrentPeriodStatus(p Pattern, lastCompleted *time.Time, today time.Time) Status {
	if lastCompleted == nil {
		return StatusPending
	}
	last := clock.Midnight(*lastCompleted)
	today = clock.Midnight(today)

	switch p {
	case Weekly:
		// time.Weekday numbers Sunday as 0, so the subtraction lands
		// on the current week's Sunday.
		weekStart := today.AddDate(0, 0, -int(today.Weekday()))
		if !last.Before(weekStart) {
			return StatusCompleted
		}
	case Monthly:
		if last.Year() == today.Year() && last.Month() == today.Month() {
			return StatusCompleted
		}
	case Annual:
		if last.Year() == today.Year() {
			return StatusCompleted
		}
	default:
		if last.Equal(today) {
			return StatusCompleted
		}
	}
	return StatusPending
}

// StatusFor resolves a raw pattern string and computes the period status.
// Unrecognized patterns use the Daily rule.
func StatusFor(pattern string, lastCompleted *time.Time, today time.Time) Status {
	p, _ := ParsePattern(pattern)
	return CurrentPeriodStatus(p, lastCompleted, today)
}
