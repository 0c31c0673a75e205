package cli

import (
	"context"

	"github.com/toolbridge/slack-mcp-server/pkg/cli/config"
	"github.com/toolbridge/slack-mcp-server/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, args []string, version string) error {
	var loggerCfg config.Logger
	var closer func()

	app := &cli.Command{
		Name:    "slack-mcp-server",
		Usage:   "Read-only Slack bridge for AI assistants over the Model Context Protocol",
		Version: version,
		Flags:   loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = f

			logging.Default().Info("Starting slack-mcp-server", "version", version, "logger", loggerCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if closer != nil {
				closer()
			}
			return nil
		},
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			cmdServe(version),
			cmdRefresh(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}
