package types

// AuthMode represents how requests to Slack are authenticated
type AuthMode string

const (
	// AuthModeBot authenticates with a bot token (xoxb-). No refresh.
	AuthModeBot AuthMode = "bot"
	// AuthModeUser authenticates with a user session token (xoxc-) plus
	// a browser session cookie (xoxd-). Subject to periodic refresh.
	AuthModeUser AuthMode = "user"
)

// IsValid checks if the auth mode is valid
func (m AuthMode) IsValid() bool {
	switch m {
	case AuthModeBot, AuthModeUser:
		return true
	default:
		return false
	}
}

// String returns the string representation of the auth mode
func (m AuthMode) String() string {
	return string(m)
}
