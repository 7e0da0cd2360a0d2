package recur

import (
	"iter"
	"time"

	"timeplan/internal/clock"
)

// NextOccurrence returns the occurrence following date for the given
// pattern. Monthly advances to the same day of the next month, clamped to
// that month's last day when the day does not exist there (Jan 31 steps to
// Feb 28/29, never into March). Annual clamps Feb 29 to Feb 28 on
// non-leap years.
func NextOccurrence(date time.Time, p Pattern) time.Time {
	date = clock.Midnight(date)
	switch p {
	case Weekly:
		return date.AddDate(0, 0, 7)
	case Monthly:
		return addMonthClamped(date)
	case Annual:
		return addYearClamped(date)
	default:
		return date.AddDate(0, 0, 1)
	}
}

// OccursOn reports whether query lands exactly on an occurrence of the
// series starting at start. Daily and weekly reduce to day arithmetic;
// monthly and annual walk the series, which is bounded by the query date.
func OccursOn(start time.Time, p Pattern, query time.Time) bool {
	start = clock.Midnight(start)
	query = clock.Midnight(query)
	if query.Before(start) {
		return false
	}
	switch p {
	case Daily:
		return true
	case Weekly:
		return daysBetween(start, query)%7 == 0
	default:
		cur := start
		for cur.Before(query) {
			cur = NextOccurrence(cur, p)
		}
		return cur.Equal(query)
	}
}

// OccurrencesInRange yields the occurrences of the series starting at start
// that fall within [from, to], ascending. The sequence is finite and can be
// ranged over more than once. Callers own the horizon; the calendar paints
// 180 days ahead of today.
func OccurrencesInRange(start time.Time, p Pattern, from, to time.Time) iter.Seq[time.Time] {
	start = clock.Midnight(start)
	from = clock.Midnight(from)
	to = clock.Midnight(to)
	return func(yield func(time.Time) bool) {
		for cur := start; !cur.After(to); cur = NextOccurrence(cur, p) {
			if cur.Before(from) {
				continue
			}
			if !yield(cur) {
				return
			}
		}
	}
}

func addMonthClamped(date time.Time) time.Time {
	year, month, day := date.Date()
	// time.Date normalizes month 13 into January of the next year.
	first := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	if last := daysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

func addYearClamped(date time.Time) time.Time {
	year, month, day := date.Date()
	if last := daysInMonth(year+1, month); day > last {
		day = last
	}
	return time.Date(year+1, month, day, 0, 0, 0, 0, time.UTC)
}

// daysInMonth exploits day-zero normalization: day 0 of the next month is
// the last day of this one.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}
