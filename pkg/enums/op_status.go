package enums

import "fmt"

// OpStatus is the per-operation state on the schedule board. Unlike
// LineStatus it has a completed terminal state because an operation can
// finish while its order line still waits on later operations.
type OpStatus string

const (
	OpStatusCompleted    OpStatus = "completed"
	OpStatusInWork       OpStatus = "in_work"
	OpStatusUnengineered OpStatus = "unengineered"
	OpStatusNotStarted   OpStatus = "not_started"
)

var validOpStatuses = []OpStatus{
	OpStatusCompleted,
	OpStatusInWork,
	OpStatusUnengineered,
	OpStatusNotStarted,
}

// String implements fmt.Stringer.
func (s OpStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OpStatus.
func (s OpStatus) IsValid() bool {
	for _, candidate := range validOpStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOpStatus converts raw input into an OpStatus.
func ParseOpStatus(value string) (OpStatus, error) {
	for _, candidate := range validOpStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid operation status %q", value)
}
