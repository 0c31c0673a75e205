package config

import (
	"log/slog"

	"github.com/toolbridge/slack-mcp-server/pkg/repository/errorlog"
	"github.com/urfave/cli/v3"
)

type ErrorLog struct {
	path string
}

func (x *ErrorLog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "error-log-path",
			Usage:       "Path of the JSONL diagnostic log read by the error log tools",
			Category:    "Diagnostics",
			Value:       homeRelative(".slack-mcp-server", "error.log"),
			Destination: &x.path,
			Sources:     cli.EnvVars("SLACK_ERROR_LOG_PATH"),
		},
	}
}

// Path returns the error log file location.
func (x *ErrorLog) Path() string {
	if x.path != "" {
		return x.path
	}
	return homeRelative(".slack-mcp-server", "error.log")
}

// Configure opens the error log at the configured path.
func (x *ErrorLog) Configure() *errorlog.Logger {
	return errorlog.New(x.Path())
}

func (x ErrorLog) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", x.Path()),
	)
}
