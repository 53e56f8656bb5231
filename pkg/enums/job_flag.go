package enums

import "fmt"

// JobFlag is the tri-state value of a job attribute (engineered/released)
// on an enriched line. Unresolved lines carry the no_job marker rather than
// a boolean; resolved jobs missing from the detail sources carry unknown.
type JobFlag string

const (
	JobFlagYes     JobFlag = "yes"
	JobFlagNo      JobFlag = "no"
	JobFlagNoJob   JobFlag = "no_job"
	JobFlagUnknown JobFlag = "unknown"
)

var validJobFlags = []JobFlag{
	JobFlagYes,
	JobFlagNo,
	JobFlagNoJob,
	JobFlagUnknown,
}

// FlagFromBool converts a parsed source boolean into a JobFlag.
func FlagFromBool(value bool) JobFlag {
	if value {
		return JobFlagYes
	}
	return JobFlagNo
}

// String implements fmt.Stringer.
func (f JobFlag) String() string {
	return string(f)
}

// IsValid reports whether the value is a known JobFlag.
func (f JobFlag) IsValid() bool {
	for _, candidate := range validJobFlags {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseJobFlag converts raw input into a JobFlag.
func ParseJobFlag(value string) (JobFlag, error) {
	for _, candidate := range validJobFlags {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid job flag %q", value)
}
