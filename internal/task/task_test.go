package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"timeplan/internal/clock"
)

func ptrDate(y int, m time.Month, d int) *time.Time {
	t := clock.Date(y, m, d)
	return &t
}

func TestEffectiveCategory(t *testing.T) {
	today := clock.Date(2024, time.March, 13)

	tests := []struct {
		name string
		task Task
		want Category
	}{
		{"ongoing due today stays ongoing", Task{Category: OnGoing, DueDate: ptrDate(2024, time.March, 13)}, OnGoing},
		{"ongoing due tomorrow stays ongoing", Task{Category: OnGoing, DueDate: ptrDate(2024, time.March, 14)}, OnGoing},
		{"ongoing past due shows missed before sweep", Task{Category: OnGoing, DueDate: ptrDate(2024, time.March, 12)}, Missed},
		{"ongoing without due date never lapses", Task{Category: OnGoing}, OnGoing},
		{"completed is terminal even past due", Task{Category: Completed, DueDate: ptrDate(2024, time.January, 1)}, Completed},
		{"missed stays missed", Task{Category: Missed, DueDate: ptrDate(2024, time.January, 1)}, Missed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveCategory(tt.task, today))
		})
	}
}

func TestCategoryForNewTask(t *testing.T) {
	today := clock.Date(2024, time.March, 13)

	assert.Equal(t, OnGoing, CategoryForNewTask(nil, today))
	assert.Equal(t, OnGoing, CategoryForNewTask(ptrDate(2024, time.March, 13), today))
	assert.Equal(t, OnGoing, CategoryForNewTask(ptrDate(2024, time.April, 1), today))
	assert.Equal(t, Missed, CategoryForNewTask(ptrDate(2024, time.March, 12), today))
}

func TestGroupHabits(t *testing.T) {
	habits := []RecurringTask{
		{ID: 1, Title: "stretch", Pattern: "Daily"},
		{ID: 2, Title: "rent", Pattern: "monthly"},
		{ID: 3, Title: "review", Pattern: "Weekly"},
		{ID: 4, Title: "renew passport", Pattern: "Yearly"},
		{ID: 5, Title: "journal", Pattern: "daily"},
		{ID: 6, Title: "mystery", Pattern: "every other day"},
	}

	groups := GroupHabits(habits)
	assert.Equal(t, GroupNames(), []string{groups[0].Name, groups[1].Name, groups[2].Name, groups[3].Name})

	ids := func(g HabitGroup) []int {
		out := make([]int, 0, len(g.Tasks))
		for _, h := range g.Tasks {
			out = append(out, h.ID)
		}
		return out
	}
	assert.Equal(t, []int{1, 5}, ids(groups[0]), "daily keeps store order")
	assert.Equal(t, []int{2}, ids(groups[1]))
	assert.Equal(t, []int{4}, ids(groups[2]), "yearly counts as annual")
	assert.Equal(t, []int{3, 6}, ids(groups[3]), "weekly and unknown land in Other")
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, ok := ParseCategory(c.String())
		assert.True(t, ok)
		assert.Equal(t, c, got)
	}
	got, ok := ParseCategory("ongoing")
	assert.True(t, ok)
	assert.Equal(t, OnGoing, got)

	got, ok = ParseCategory("archived")
	assert.False(t, ok)
	assert.Equal(t, OnGoing, got)
}

func TestParsePriority(t *testing.T) {
	assert.Equal(t, Urgent, ParsePriority("urgent"))
	assert.Equal(t, NotUrgent, ParsePriority("Not urgent"))
	assert.Equal(t, NotUrgent, ParsePriority(""))
	assert.Equal(t, NotUrgent, ParsePriority("critical"))
	assert.Equal(t, 1, Urgent.Level())
	assert.Equal(t, 2, NotUrgent.Level())
}

func TestParseFilter(t *testing.T) {
	assert.Equal(t, FilterToday, ParseFilter("today"))
	assert.Equal(t, FilterNext7Days, ParseFilter("Next 7 Days"))
	assert.Equal(t, FilterAllTasks, ParseFilter("nonsense"))
	assert.Equal(t, FilterAllTasks, ParseFilter(""))
}
