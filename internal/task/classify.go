package task

import (
	"time"

	"timeplan/internal/clock"
)

// EffectiveCategory is the category a task is displayed and filtered under.
// A persisted On-going task whose due date has passed shows as Missed even
// before the sweep persists the move; Completed is terminal and ignores the
// due date.
func EffectiveCategory(t Task, today time.Time) Category {
	if t.Category == Completed {
		return Completed
	}
	if t.DueDate != nil && clock.Midnight(*t.DueDate).Before(clock.Midnight(today)) {
		return Missed
	}
	return t.Category
}

// CategoryForNewTask picks the category a freshly created task starts in.
// A due date strictly before today means the task is born Missed.
func CategoryForNewTask(dueDate *time.Time, today time.Time) Category {
	if dueDate != nil && clock.Midnight(*dueDate).Before(clock.Midnight(today)) {
		return Missed
	}
	return OnGoing
}
