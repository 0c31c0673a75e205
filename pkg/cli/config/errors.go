package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrNoCredentials    = goerr.New("no Slack credentials configured: set SLACK_BOT_TOKEN, or SLACK_USER_TOKEN with SLACK_COOKIE_D")
	ErrMissingCookie    = goerr.New("a user token requires the browser session cookie")
	ErrBadTokenPrefix   = goerr.New("credential prefix does not match its authentication mode")
	ErrInvalidTransport = goerr.New("invalid transport")
	ErrInvalidLogLevel  = goerr.New("invalid log level")
	ErrInvalidLogFormat = goerr.New("invalid log format")
	ErrStdoutLogOutput  = goerr.New("stdout is reserved for MCP protocol frames and cannot carry logs")
)
