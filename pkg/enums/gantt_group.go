package enums

import "fmt"

// GanttGroup selects the grouping key for schedule bar rows.
type GanttGroup string

const (
	GanttGroupShipWeek GanttGroup = "ship_week"
	GanttGroupCustomer GanttGroup = "customer"
	GanttGroupStatus   GanttGroup = "status"
)

var validGanttGroups = []GanttGroup{
	GanttGroupShipWeek,
	GanttGroupCustomer,
	GanttGroupStatus,
}

// String implements fmt.Stringer.
func (g GanttGroup) String() string {
	return string(g)
}

// IsValid reports whether the value is a known GanttGroup.
func (g GanttGroup) IsValid() bool {
	for _, candidate := range validGanttGroups {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGanttGroup converts raw input into a GanttGroup. Empty input groups
// by ship week.
func ParseGanttGroup(value string) (GanttGroup, error) {
	if value == "" {
		return GanttGroupShipWeek, nil
	}
	for _, candidate := range validGanttGroups {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid gantt group %q", value)
}
