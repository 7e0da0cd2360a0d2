package recur

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrentPeriodStatus(t *testing.T) {
	today := d(2024, time.March, 13) // a Wednesday
	ptr := func(t time.Time) *time.Time { return &t }

	tests := []struct {
		name          string
		pattern       Pattern
		lastCompleted *time.Time
		want          Status
	}{
		{"never completed", Daily, nil, StatusPending},
		{"daily done today", Daily, ptr(today), StatusCompleted},
		{"daily done yesterday", Daily, ptr(d(2024, time.March, 12)), StatusPending},

		{"weekly done on week start sunday", Weekly, ptr(d(2024, time.March, 10)), StatusCompleted},
		{"weekly done mid-week", Weekly, ptr(d(2024, time.March, 12)), StatusCompleted},
		{"weekly done saturday before", Weekly, ptr(d(2024, time.March, 9)), StatusPending},

		{"monthly done this month", Monthly, ptr(d(2024, time.March, 1)), StatusCompleted},
		{"monthly done last month", Monthly, ptr(d(2024, time.February, 29)), StatusPending},
		{"monthly same month last year", Monthly, ptr(d(2023, time.March, 20)), StatusPending},

		{"annual done this year", Annual, ptr(d(2024, time.January, 1)), StatusCompleted},
		{"annual done last year", Annual, ptr(d(2023, time.December, 31)), StatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentPeriodStatus(tt.pattern, tt.lastCompleted, today))
		})
	}
}

// The week rolls over on Sunday: Saturday's completion goes stale the
// next morning.
func TestCurrentPeriodStatusWeekBoundary(t *testing.T) {
	saturday := d(2024, time.March, 9)
	sunday := d(2024, time.March, 10)

	assert.Equal(t, StatusCompleted, CurrentPeriodStatus(Weekly, &saturday, saturday))
	assert.Equal(t, StatusPending, CurrentPeriodStatus(Weekly, &saturday, sunday))
	assert.Equal(t, StatusCompleted, CurrentPeriodStatus(Weekly, &sunday, sunday))
}

// An unparseable pattern falls back to the daily rule.
func TestStatusForUnknownPattern(t *testing.T) {
	today := d(2024, time.March, 13)
	yesterday := d(2024, time.March, 12)

	assert.Equal(t, StatusCompleted, StatusFor("every other day", &today, today))
	assert.Equal(t, StatusPending, StatusFor("every other day", &yesterday, today))
}
