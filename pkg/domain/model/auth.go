package model

import (
	"log/slog"

	"github.com/toolbridge/slack-mcp-server/pkg/domain/types"
)

// Token and cookie prefixes Slack issues per credential kind
const (
	BotTokenPrefix  = "xoxb-"
	UserTokenPrefix = "xoxc-"
	CookiePrefix    = "xoxd-"
)

// AuthConfig is a tagged value describing how requests to Slack are
// authenticated. Bot mode carries only a token; user mode carries a token
// plus the browser session cookie. Behavior is selected by Mode(), never by
// probing which fields happen to be set.
type AuthConfig struct {
	mode   types.AuthMode
	token  string
	cookie string
}

// NewBotAuth creates a bot-mode AuthConfig
func NewBotAuth(token string) AuthConfig {
	return AuthConfig{mode: types.AuthModeBot, token: token}
}

// NewUserAuth creates a user-mode AuthConfig
func NewUserAuth(token, cookie string) AuthConfig {
	return AuthConfig{mode: types.AuthModeUser, token: token, cookie: cookie}
}

// Mode returns the authentication mode
func (a AuthConfig) Mode() types.AuthMode {
	return a.mode
}

// Token returns the raw token. Never log this directly; use LogValue or
// MaskCredential.
func (a AuthConfig) Token() string {
	return a.token
}

// Cookie returns the raw session cookie (user mode only)
func (a AuthConfig) Cookie() string {
	return a.cookie
}

// IsZero reports whether no authentication has been resolved
func (a AuthConfig) IsZero() bool {
	return a.mode == ""
}

// LogValue exposes only masked credentials to the logger
func (a AuthConfig) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("mode", a.mode.String()),
		slog.String("token", MaskCredential(a.token)),
	}
	if a.mode == types.AuthModeUser {
		attrs = append(attrs, slog.String("cookie", MaskCredential(a.cookie)))
	}
	return slog.GroupValue(attrs...)
}
