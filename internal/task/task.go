// Package task holds the domain model for one-off tasks and recurring
// habits, the lifecycle rules that decide which category a task is shown
// under, and the named list filters the presentation layer offers.
package task

import (
	"strings"
	"time"

	"timeplan/internal/recur"
)

// Category is the closed lifecycle set for one-off tasks. Categories are
// resolved to storage ids only at the store boundary.
type Category int

const (
	OnGoing Category = iota
	Missed
	Completed
)

var categoryNames = map[Category]string{
	OnGoing:   "On-going",
	Missed:    "Missed",
	Completed: "Completed",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "On-going"
}

// Categories lists every category in seed order.
func Categories() []Category {
	return []Category{OnGoing, Missed, Completed}
}

// ParseCategory resolves a stored category name, case-insensitively.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on-going", "ongoing":
		return OnGoing, true
	case "missed":
		return Missed, true
	case "completed", "done":
		return Completed, true
	default:
		return OnGoing, false
	}
}

// Priority orders tasks within a due date. Lower level sorts first.
type Priority int

const (
	Urgent    Priority = 1
	NotUrgent Priority = 2
)

func (p Priority) String() string {
	if p == Urgent {
		return "Urgent"
	}
	return "Not urgent"
}

func (p Priority) Level() int {
	return int(p)
}

// ParsePriority resolves a priority name, defaulting to NotUrgent as the
// original schema did for unknown names.
func ParsePriority(s string) Priority {
	if strings.EqualFold(strings.TrimSpace(s), "Urgent") {
		return Urgent
	}
	return NotUrgent
}

// Task is a one-off task. DueDate is a bare calendar date when set.
type Task struct {
	ID          int
	Title       string
	Description string
	Priority    Priority
	DueDate     *time.Time
	Category    Category
	UserID      int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecurringTask is a habit. Status mirrors the persisted cache; the store
// reconciles it against recur.StatusFor on every fetch.
type RecurringTask struct {
	ID            int
	Title         string
	Description   string
	StartDate     time.Time
	Pattern       string
	LastCompleted *time.Time
	Status        recur.Status
	UserID        int
}

// User is an account row. Hardening the credential is a non-goal.
type User struct {
	ID       int
	Username string
}
