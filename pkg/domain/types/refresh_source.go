package types

import "fmt"

// RefreshSource records which path produced a persisted credential set
type RefreshSource string

const (
	// RefreshSourceInitial marks credentials seeded from the environment at startup
	RefreshSourceInitial RefreshSource = "initial"
	// RefreshSourceAuto marks credentials written by the scheduled refresh
	RefreshSourceAuto RefreshSource = "auto-refresh"
	// RefreshSourceManual marks credentials written by an operator-triggered refresh
	RefreshSourceManual RefreshSource = "manual-refresh"
)

// AllRefreshSources returns all valid refresh sources
func AllRefreshSources() []RefreshSource {
	return []RefreshSource{
		RefreshSourceInitial,
		RefreshSourceAuto,
		RefreshSourceManual,
	}
}

// IsValid checks if the refresh source is valid
func (s RefreshSource) IsValid() bool {
	switch s {
	case RefreshSourceInitial, RefreshSourceAuto, RefreshSourceManual:
		return true
	default:
		return false
	}
}

// String returns the string representation of the refresh source
func (s RefreshSource) String() string {
	return string(s)
}

// ParseRefreshSource parses a string into a RefreshSource
func ParseRefreshSource(s string) (RefreshSource, error) {
	source := RefreshSource(s)
	if !source.IsValid() {
		return "", fmt.Errorf("invalid refresh source: %s", s)
	}
	return source, nil
}
