package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/toolbridge/slack-mcp-server/pkg/domain/types"
)

// RefreshError is a classified refresh failure. Retryable mirrors the code's
// classification at construction time.
type RefreshError struct {
	Code      types.RefreshErrorCode `json:"code"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	Attempt   int                    `json:"attempt"`
	Retryable bool                   `json:"retryable"`
}

// NewRefreshError creates a RefreshError. Timestamp and Attempt are filled
// by the refresh engine when the error is recorded.
func NewRefreshError(code types.RefreshErrorCode, message string) *RefreshError {
	return &RefreshError{
		Code:      code,
		Message:   message,
		Retryable: code.Retryable(),
	}
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AsRefreshError extracts a RefreshError from an error chain. Unclassified
// errors are wrapped as UNKNOWN (terminal).
func AsRefreshError(err error) *RefreshError {
	var re *RefreshError
	if errors.As(err, &re) {
		return re
	}
	return NewRefreshError(types.RefreshErrUnknown, err.Error())
}

// RefreshState is an immutable snapshot of the refresh manager. Counters and
// timestamps describe the most recent completed run; Status is in_progress
// only while a run holds the guard.
type RefreshState struct {
	Status              types.RefreshStatus
	LastAttempt         *time.Time
	LastSuccess         *time.Time
	LastError           *RefreshError
	ConsecutiveFailures int
	IsManualTrigger     bool
}
