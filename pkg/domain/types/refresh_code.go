package types

// RefreshErrorCode classifies a refresh failure. Retryable codes keep the
// retry loop going; terminal codes short-circuit it.
type RefreshErrorCode string

const (
	RefreshErrNetwork      RefreshErrorCode = "NETWORK_ERROR"
	RefreshErrRateLimited  RefreshErrorCode = "RATE_LIMITED"
	RefreshErrStorage      RefreshErrorCode = "STORAGE_ERROR"
	RefreshErrInProgress   RefreshErrorCode = "REFRESH_IN_PROGRESS"
	RefreshErrRevoked      RefreshErrorCode = "SESSION_REVOKED"
	RefreshErrInvalid      RefreshErrorCode = "INVALID_RESPONSE"
	RefreshErrNotAvailable RefreshErrorCode = "REFRESH_NOT_AVAILABLE"
	RefreshErrUnknown      RefreshErrorCode = "UNKNOWN"
)

// Retryable reports whether the retry loop should continue after this code
func (c RefreshErrorCode) Retryable() bool {
	switch c {
	case RefreshErrNetwork, RefreshErrRateLimited, RefreshErrStorage, RefreshErrInProgress:
		return true
	default:
		return false
	}
}

// IsValid checks if the refresh error code is valid
func (c RefreshErrorCode) IsValid() bool {
	switch c {
	case RefreshErrNetwork, RefreshErrRateLimited, RefreshErrStorage, RefreshErrInProgress,
		RefreshErrRevoked, RefreshErrInvalid, RefreshErrNotAvailable, RefreshErrUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation of the refresh error code
func (c RefreshErrorCode) String() string {
	return string(c)
}
