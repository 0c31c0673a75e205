package types

// RefreshStatus represents the state of the refresh manager.
// Succeeded and failed runs both settle back into idle; the outcome is
// carried by the ancillary state fields, not by the status itself.
type RefreshStatus string

const (
	RefreshStatusIdle       RefreshStatus = "idle"
	RefreshStatusInProgress RefreshStatus = "in_progress"
)

// IsValid checks if the refresh status is valid
func (s RefreshStatus) IsValid() bool {
	switch s {
	case RefreshStatusIdle, RefreshStatusInProgress:
		return true
	default:
		return false
	}
}

// String returns the string representation of the refresh status
func (s RefreshStatus) String() string {
	return string(s)
}
