package enums

import "fmt"

// AlertLevel grades daily summary alerts.
type AlertLevel string

const (
	AlertLevelCritical AlertLevel = "critical"
	AlertLevelWarning  AlertLevel = "warning"
	AlertLevelInfo     AlertLevel = "info"
)

var validAlertLevels = []AlertLevel{
	AlertLevelCritical,
	AlertLevelWarning,
	AlertLevelInfo,
}

// String implements fmt.Stringer.
func (a AlertLevel) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AlertLevel.
func (a AlertLevel) IsValid() bool {
	for _, candidate := range validAlertLevels {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAlertLevel converts raw input into an AlertLevel.
func ParseAlertLevel(value string) (AlertLevel, error) {
	for _, candidate := range validAlertLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid alert level %q", value)
}
