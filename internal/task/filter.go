package task

import "strings"

// Filter names the task lists the sidebar offers.
type Filter string

const (
	FilterToday     Filter = "Today"
	FilterNext7Days Filter = "Next 7 Days"
	FilterAllTasks  Filter = "All Tasks"
	FilterOnGoing   Filter = "On-going"
	FilterCompleted Filter = "Completed"
	FilterMissed    Filter = "Missed"
)

// Filters lists every filter in sidebar order.
func Filters() []Filter {
	return []Filter{
		FilterToday,
		FilterNext7Days,
		FilterAllTasks,
		FilterOnGoing,
		FilterCompleted,
		FilterMissed,
	}
}

// ParseFilter resolves a filter name, defaulting to All Tasks.
func ParseFilter(s string) Filter {
	for _, f := range Filters() {
		if strings.EqualFold(strings.TrimSpace(s), string(f)) {
			return f
		}
	}
	return FilterAllTasks
}
