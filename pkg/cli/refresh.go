package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"

	"github.com/toolbridge/slack-mcp-server/pkg/cli/config"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/types"
	"github.com/toolbridge/slack-mcp-server/pkg/service/refresh"
	"github.com/toolbridge/slack-mcp-server/pkg/service/slackapi"
	"github.com/urfave/cli/v3"
)

// cmdRefresh is the operator-facing counterpart of the refresh_credentials
// tool: one refresh attempt with the full retry policy, then exit. Exit
// code 1 signals failure to wrapping scripts.
func cmdRefresh() *cli.Command {
	var (
		slackCfg   config.Slack
		refreshCfg config.Refresh
		errlogCfg  config.ErrorLog
	)

	var flags []cli.Flag
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, refreshCfg.Flags()...)
	flags = append(flags, errlogCfg.Flags()...)

	return &cli.Command{
		Name:  "refresh",
		Usage: "Refresh the stored user session once and exit",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			auth, err := slackCfg.ResolveAuth()
			if err != nil {
				return goerr.Wrap(err, "failed to resolve Slack authentication")
			}
			if auth.Mode() != types.AuthModeUser {
				return goerr.New("credential refresh requires user authentication; set SLACK_USER_TOKEN and SLACK_COOKIE_D")
			}
			if slackCfg.Workspace() == "" {
				return goerr.New("credential refresh requires SLACK_WORKSPACE")
			}

			holder := slackapi.NewHolder(auth)
			store := refreshCfg.ConfigureStore()
			bindStoredCredentials(store, holder, auth, slackCfg.Workspace())

			manager := refresh.New(store, holder,
				refresh.WithErrorLog(errlogCfg.Configure()),
				refresh.WithIntervalDays(refreshCfg.IntervalDays()),
			)

			creds, err := manager.RefreshWithRetry(ctx, true)
			if err != nil {
				return goerr.Wrap(err, "refresh failed")
			}

			header := color.New(color.FgGreen, color.Bold)
			_, _ = header.Fprintln(color.Output, "Credentials refreshed.")
			_, _ = fmt.Fprintf(color.Output, "  workspace:      %s\n", creds.Credentials.Workspace)
			_, _ = fmt.Fprintf(color.Output, "  token:          %s\n", model.MaskCredential(creds.Credentials.Token))
			_, _ = fmt.Fprintf(color.Output, "  cookie:         %s\n", model.MaskCredential(creds.Credentials.Cookie))
			_, _ = fmt.Fprintf(color.Output, "  refresh count:  %d\n", creds.Metadata.RefreshCount)
			_, _ = fmt.Fprintf(color.Output, "  last refreshed: %s\n", creds.Metadata.LastRefreshed.Format(time.RFC3339))
			return nil
		},
	}
}
