// Package clock supplies the current calendar date in the application's
// fixed civil timezone. Every classification and status decision routes
// through a single Clock so one logical operation never straddles two
// different notions of "today".
package clock

import (
	"fmt"
	"time"
)

// DefaultTimezone is the civil timezone the application runs in.
const DefaultTimezone = "Asia/Manila"

// Clock yields the current calendar date.
type Clock interface {
	// Today returns the current date with a zero time component.
	Today() time.Time
}

// System reads the wall clock in a fixed location.
type System struct {
	loc *time.Location
}

// NewSystem loads the named timezone. It fails rather than falling back to
// UTC: a silent fallback would shift the Missed/Completed boundary by the
// timezone offset.
func NewSystem(name string) (*System, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return &System{loc: loc}, nil
}

func (s *System) Today() time.Time {
	return Midnight(time.Now().In(s.loc))
}

// Fixed always reports the same date. Used by tests and batch operations
// that must not drift mid-sweep.
type Fixed struct {
	date time.Time
}

func NewFixed(date time.Time) *Fixed {
	return &Fixed{date: Midnight(date)}
}

func (f *Fixed) Today() time.Time {
	return f.date
}

// Midnight strips the time component, leaving a bare calendar date in UTC.
// All date arithmetic in the engine works on these normalized values.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date builds a normalized calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
