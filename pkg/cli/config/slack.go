package config

import (
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
	"github.com/toolbridge/slack-mcp-server/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

type Slack struct {
	botToken  string
	userToken string
	cookie    string
	workspace string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack bot token (xoxb-...); takes precedence over the user token",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-user-token",
			Usage:       "Slack user session token (xoxc-...); requires --slack-cookie-d",
			Category:    "Slack",
			Destination: &x.userToken,
			Sources:     cli.EnvVars("SLACK_USER_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-cookie-d",
			Usage:       "Value of the Slack browser 'd' session cookie (xoxd-...)",
			Category:    "Slack",
			Destination: &x.cookie,
			Sources:     cli.EnvVars("SLACK_COOKIE_D"),
		},
		&cli.StringFlag{
			Name:        "slack-workspace",
			Usage:       "Workspace subdomain (<workspace>.slack.com), enables credential refresh",
			Category:    "Slack",
			Destination: &x.workspace,
			Sources:     cli.EnvVars("SLACK_WORKSPACE"),
		},
	}
}

// ResolveAuth picks the authentication mode from the configured tokens.
// A bot token wins when both are set. A user token is only usable together
// with the browser cookie, so a missing cookie is a startup error rather
// than a degraded mode.
func (x *Slack) ResolveAuth() (model.AuthConfig, error) {
	if x.botToken != "" {
		if !strings.HasPrefix(x.botToken, "xoxb-") {
			return model.AuthConfig{}, goerr.Wrap(ErrBadTokenPrefix, "SLACK_BOT_TOKEN must start with xoxb-")
		}
		if x.userToken != "" {
			logging.Default().Warn("both SLACK_BOT_TOKEN and SLACK_USER_TOKEN are set, using the bot token")
		}
		return model.NewBotAuth(x.botToken), nil
	}

	if x.userToken != "" {
		if !strings.HasPrefix(x.userToken, "xoxc-") {
			return model.AuthConfig{}, goerr.Wrap(ErrBadTokenPrefix, "SLACK_USER_TOKEN must start with xoxc-")
		}
		if x.cookie == "" {
			return model.AuthConfig{}, goerr.Wrap(ErrMissingCookie, "SLACK_USER_TOKEN is set but SLACK_COOKIE_D is empty")
		}
		if !strings.HasPrefix(x.cookie, "xoxd-") {
			return model.AuthConfig{}, goerr.Wrap(ErrBadTokenPrefix, "SLACK_COOKIE_D must start with xoxd-")
		}
		return model.NewUserAuth(x.userToken, x.cookie), nil
	}

	return model.AuthConfig{}, ErrNoCredentials
}

// Workspace returns the workspace subdomain used by credential refresh.
func (x *Slack) Workspace() string {
	return x.workspace
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("bot-token", model.MaskCredential(x.botToken)),
		slog.String("user-token", model.MaskCredential(x.userToken)),
		slog.String("cookie", model.MaskCredential(x.cookie)),
		slog.String("workspace", x.workspace),
	)
}
