package enums

import "fmt"

// ESIFilter selects how the medical (ESI) classification narrows a line
// query: keep everything, only ESI lines, or only non-ESI lines.
type ESIFilter string

const (
	ESIFilterAll     ESIFilter = "all"
	ESIFilterOnly    ESIFilter = "only"
	ESIFilterExclude ESIFilter = "exclude"
)

var validESIFilters = []ESIFilter{
	ESIFilterAll,
	ESIFilterOnly,
	ESIFilterExclude,
}

// String implements fmt.Stringer.
func (f ESIFilter) String() string {
	return string(f)
}

// IsValid reports whether the value is a known ESIFilter.
func (f ESIFilter) IsValid() bool {
	for _, candidate := range validESIFilters {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseESIFilter converts raw input into an ESIFilter. Empty input means all.
func ParseESIFilter(value string) (ESIFilter, error) {
	if value == "" {
		return ESIFilterAll, nil
	}
	for _, candidate := range validESIFilters {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid esi filter %q", value)
}
