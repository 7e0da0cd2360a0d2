package recur

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"timeplan/internal/clock"
)

func genDate(rt *rapid.T) time.Time {
	year := rapid.IntRange(2020, 2030).Draw(rt, "year")
	month := time.Month(rapid.IntRange(1, 12).Draw(rt, "month"))
	day := rapid.IntRange(1, daysInMonth(year, month)).Draw(rt, "day")
	return clock.Date(year, month, day)
}

func genPattern(rt *rapid.T) Pattern {
	return rapid.SampledFrom(Patterns()).Draw(rt, "pattern")
}

// NextOccurrence always moves strictly forward and stays a normalized
// calendar date.
func TestPropertyNextOccurrenceAdvances(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		date := genDate(rt)
		p := genPattern(rt)

		next := NextOccurrence(date, p)
		if !next.After(date) {
			rt.Fatalf("NextOccurrence(%v, %v) = %v, not after input", date, p, next)
		}
		if !next.Equal(clock.Midnight(next)) {
			rt.Fatalf("NextOccurrence(%v, %v) = %v, not a midnight date", date, p, next)
		}
	})
}

// A daily chain advances exactly one day and a weekly chain exactly
// seven, no matter where it starts.
func TestPropertyFixedStepPatterns(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		date := genDate(rt)
		if got := NextOccurrence(date, Daily); daysBetween(date, got) != 1 {
			rt.Fatalf("Daily step from %v was %d days", date, daysBetween(date, got))
		}
		if got := NextOccurrence(date, Weekly); daysBetween(date, got) != 7 {
			rt.Fatalf("Weekly step from %v was %d days", date, daysBetween(date, got))
		}
	})
}

// Twelve monthly steps land in the same month one year later.
func TestPropertyTwelveMonthlyStepsReturn(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		date := genDate(rt)
		cur := date
		for i := 0; i < 12; i++ {
			cur = NextOccurrence(cur, Monthly)
		}
		if cur.Year() != date.Year()+1 || cur.Month() != date.Month() {
			rt.Fatalf("12 monthly steps from %v landed on %v", date, cur)
		}
	})
}

// Monthly and annual steps never leave the valid-day range of the month
// they land in, and never move the day-of-month forward.
func TestPropertyClampNeverOverflows(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		date := genDate(rt)
		for _, p := range []Pattern{Monthly, Annual} {
			next := NextOccurrence(date, p)
			if next.Day() > daysInMonth(next.Year(), next.Month()) {
				rt.Fatalf("NextOccurrence(%v, %v) = %v overflows its month", date, p, next)
			}
			if next.Day() > date.Day() {
				rt.Fatalf("NextOccurrence(%v, %v) = %v moved day-of-month forward", date, p, next)
			}
		}
	})
}

// Every date yielded by OccurrencesInRange satisfies OccursOn, and the
// day before each yielded weekly or monthly occurrence does not.
func TestPropertyRangeAgreesWithOccursOn(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		start := genDate(rt)
		p := genPattern(rt)
		from := start.AddDate(0, 0, rapid.IntRange(-30, 60).Draw(rt, "fromOffset"))
		to := from.AddDate(0, 0, rapid.IntRange(0, 120).Draw(rt, "window"))

		count := 0
		for occ := range OccurrencesInRange(start, p, from, to) {
			count++
			if occ.Before(from) || occ.After(to) {
				rt.Fatalf("occurrence %v outside [%v, %v]", occ, from, to)
			}
			if !OccursOn(start, p, occ) {
				rt.Fatalf("OccursOn(%v, %v, %v) = false for yielded occurrence", start, p, occ)
			}
			if p != Daily && !occ.Equal(start) {
				prev := occ.AddDate(0, 0, -1)
				if OccursOn(start, p, prev) {
					rt.Fatalf("OccursOn true for %v, the day before occurrence %v", prev, occ)
				}
			}
			if count > 200 {
				break
			}
		}
	})
}
