package enums

import "fmt"

// LineStatus is the per-order-line dispatch state. Values are ordered by
// evaluation priority: the first matching state wins.
type LineStatus string

const (
	LineStatusNoJob        LineStatus = "no_job"
	LineStatusUnengineered LineStatus = "unengineered"
	LineStatusInWork       LineStatus = "in_work"
	LineStatusNotStarted   LineStatus = "not_started"
)

var validLineStatuses = []LineStatus{
	LineStatusNoJob,
	LineStatusUnengineered,
	LineStatusInWork,
	LineStatusNotStarted,
}

// String implements fmt.Stringer.
func (s LineStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known LineStatus.
func (s LineStatus) IsValid() bool {
	for _, candidate := range validLineStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseLineStatus converts raw input into a LineStatus.
func ParseLineStatus(value string) (LineStatus, error) {
	for _, candidate := range validLineStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid line status %q", value)
}
