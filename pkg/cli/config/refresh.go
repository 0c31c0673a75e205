package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/toolbridge/slack-mcp-server/pkg/repository/credential"
	"github.com/toolbridge/slack-mcp-server/pkg/service/refresh"
	"github.com/toolbridge/slack-mcp-server/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

type Refresh struct {
	credentialsPath string
	intervalDays    string
	enabled         string
}

func (x *Refresh) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "credentials-path",
			Usage:       "Path of the stored credentials file",
			Category:    "Refresh",
			Value:       homeRelative(".slack-mcp-server", "credentials.json"),
			Destination: &x.credentialsPath,
			Sources:     cli.EnvVars("SLACK_CREDENTIALS_PATH"),
		},
		&cli.StringFlag{
			Name:        "refresh-interval-days",
			Usage:       "Days between scheduled credential refreshes",
			Category:    "Refresh",
			Destination: &x.intervalDays,
			Sources:     cli.EnvVars("SLACK_REFRESH_INTERVAL_DAYS"),
		},
		&cli.StringFlag{
			Name:        "refresh-enabled",
			Usage:       "Set to 'false' to disable scheduled refresh (manual refresh stays available)",
			Category:    "Refresh",
			Destination: &x.enabled,
			Sources:     cli.EnvVars("SLACK_REFRESH_ENABLED"),
		},
	}
}

// Path returns the credentials file location.
func (x *Refresh) Path() string {
	if x.credentialsPath != "" {
		return x.credentialsPath
	}
	return homeRelative(".slack-mcp-server", "credentials.json")
}

// IntervalDays parses the configured refresh interval. Anything that is not
// a positive integer falls back to the default rather than failing startup.
func (x *Refresh) IntervalDays() int {
	days, ok := x.parseInterval()
	if !ok {
		logging.Default().Warn("invalid refresh interval, using default",
			"value", x.intervalDays,
			"default_days", refresh.DefaultIntervalDays)
	}
	return days
}

func (x *Refresh) parseInterval() (int, bool) {
	if x.intervalDays == "" {
		return refresh.DefaultIntervalDays, true
	}
	days, err := strconv.Atoi(x.intervalDays)
	if err != nil || days < 1 {
		return refresh.DefaultIntervalDays, false
	}
	return days, true
}

// Enabled reports whether scheduled refresh should run. Only the literal
// string "false" disables it.
func (x *Refresh) Enabled() bool {
	return x.enabled != "false"
}

// ConfigureStore opens the credential store at the configured path.
func (x *Refresh) ConfigureStore() *credential.Store {
	return credential.New(x.Path())
}

func (x Refresh) LogValue() slog.Value {
	days, _ := x.parseInterval()
	return slog.GroupValue(
		slog.String("credentials-path", x.Path()),
		slog.Int("interval-days", days),
		slog.Bool("enabled", x.Enabled()),
	)
}

// homeRelative resolves a path under the user's home directory, falling back
// to a working-directory relative path when the home cannot be determined.
func homeRelative(elem ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(elem...)
	}
	return filepath.Join(append([]string{home}, elem...)...)
}
