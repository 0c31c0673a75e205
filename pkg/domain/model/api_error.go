package model

import (
	"errors"
	"fmt"

	"github.com/toolbridge/slack-mcp-server/pkg/domain/types"
)

// APIError is a Slack API failure mapped onto the stable tool-visible code
// set. RetryAfter carries the rate-limit backoff in seconds when the code is
// rate_limited.
type APIError struct {
	Code       types.APIErrorCode
	Message    string
	RetryAfter int
}

// NewAPIError creates an APIError
func NewAPIError(code types.APIErrorCode, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Retryable reports whether callers may usefully retry
func (e *APIError) Retryable() bool {
	return e.Code.Retryable()
}

// AsAPIError extracts an APIError from an error chain. Unclassified errors
// become unknown_error.
func AsAPIError(err error) *APIError {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae
	}
	return NewAPIError(types.APIErrUnknown, err.Error())
}
