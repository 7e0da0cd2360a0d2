// Package recur implements the recurrence engine: pure date arithmetic over
// recurrence patterns and the period-status rule for habits. Functions here
// never touch storage and assume well-formed calendar dates; date strings
// are validated at the store boundary before they reach this package.
package recur

import "strings"

// Pattern is a recurrence cadence for a habit.
type Pattern int

const (
	Daily Pattern = iota
	Weekly
	Monthly
	Annual
)

var patternNames = map[Pattern]string{
	Daily:   "Daily",
	Weekly:  "Weekly",
	Monthly: "Monthly",
	Annual:  "Annual",
}

func (p Pattern) String() string {
	if name, ok := patternNames[p]; ok {
		return name
	}
	return "Daily"
}

// Patterns lists every cadence in display order.
func Patterns() []Pattern {
	return []Pattern{Daily, Weekly, Monthly, Annual}
}

// ParsePattern resolves a stored pattern string, case-insensitively.
// "Annually" and "Yearly" are historical spellings of Annual.
func ParsePattern(s string) (Pattern, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return Daily, true
	case "weekly":
		return Weekly, true
	case "monthly":
		return Monthly, true
	case "annual", "annually", "yearly":
		return Annual, true
	default:
		return Daily, false
	}
}
