package config

import (
	"log/slog"

	memrepo "github.com/toolbridge/slack-mcp-server/pkg/repository/memory"
	"github.com/urfave/cli/v3"
)

type Memory struct {
	dir string
}

func (x *Memory) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "memory-dir",
			Usage:       "Directory of markdown memory notes; memory tools are registered only when set",
			Category:    "Memory",
			Destination: &x.dir,
			Sources:     cli.EnvVars("SLACK_MEMORY_DIR"),
		},
	}
}

// Enabled reports whether the memory tool set should be registered.
func (x *Memory) Enabled() bool {
	return x.dir != ""
}

// Configure returns the note store, or nil when no directory is configured.
func (x *Memory) Configure() *memrepo.Store {
	if x.dir == "" {
		return nil
	}
	return memrepo.New(x.dir)
}

func (x Memory) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("dir", x.dir),
	)
}
