package task

import "strings"

// Habit view sections. Weekly habits have no tab of their own in the
// original layout and land in Other alongside unrecognized patterns.
const (
	GroupDaily   = "Daily"
	GroupMonthly = "Monthly"
	GroupAnnual  = "Annual"
	GroupOther   = "Other"
)

// HabitGroup is one section of the habit view.
type HabitGroup struct {
	Name  string
	Tasks []RecurringTask
}

// GroupNames lists the habit sections in display order.
func GroupNames() []string {
	return []string{GroupDaily, GroupMonthly, GroupAnnual, GroupOther}
}

// GroupHabits partitions habits into sections by normalized pattern name,
// preserving the store's start-date ordering within each section.
func GroupHabits(habits []RecurringTask) []HabitGroup {
	byName := make(map[string][]RecurringTask, 4)
	for _, h := range habits {
		name := groupFor(h.Pattern)
		byName[name] = append(byName[name], h)
	}
	groups := make([]HabitGroup, 0, 4)
	for _, name := range GroupNames() {
		groups = append(groups, HabitGroup{Name: name, Tasks: byName[name]})
	}
	return groups
}

func groupFor(pattern string) string {
	switch strings.ToLower(strings.TrimSpace(pattern)) {
	case "daily":
		return GroupDaily
	case "monthly":
		return GroupMonthly
	case "annual", "annually", "yearly":
		return GroupAnnual
	default:
		return GroupOther
	}
}
