package types

// APIErrorCode is the stable code set Slack API failures are mapped onto
// before they reach a tool response.
type APIErrorCode string

const (
	APIErrRateLimited     APIErrorCode = "rate_limited"
	APIErrInvalidAuth     APIErrorCode = "invalid_auth"
	APIErrMissingScope    APIErrorCode = "missing_scope"
	APIErrChannelNotFound APIErrorCode = "channel_not_found"
	APIErrUserNotFound    APIErrorCode = "user_not_found"
	APIErrNotInChannel    APIErrorCode = "not_in_channel"
	APIErrThreadNotFound  APIErrorCode = "thread_not_found"
	APIErrInternal        APIErrorCode = "internal_error"
	APIErrUnknown         APIErrorCode = "unknown_error"

	// APIErrSearchRequiresUser gates the search tool in bot mode
	APIErrSearchRequiresUser APIErrorCode = "search_requires_user_token"

	// APIErrInvalidInput reports a schema violation in tool input
	APIErrInvalidInput APIErrorCode = "invalid_input"
)

// Retryable reports whether callers may usefully retry the failed call
func (c APIErrorCode) Retryable() bool {
	switch c {
	case APIErrRateLimited, APIErrInternal:
		return true
	default:
		return false
	}
}

// String returns the string representation of the API error code
func (c APIErrorCode) String() string {
	return string(c)
}
