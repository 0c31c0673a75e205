package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/toolbridge/slack-mcp-server/pkg/domain/interfaces"
	"github.com/toolbridge/slack-mcp-server/pkg/usecase"
)

// Controller exposes the read-only Slack tool set over the Model Context
// Protocol. The usecase layer builds the tool payloads; this package owns
// tool schemas, argument validation and the response envelope.
type Controller struct {
	uc     *usecase.UseCases
	errlog interfaces.ErrorLogger
	server *mcp.Server
}

type Options func(*Controller)

// WithErrorLog routes tool failures into the diagnostic log
func WithErrorLog(errlog interfaces.ErrorLogger) Options {
	return func(c *Controller) {
		c.errlog = errlog
	}
}

// New builds the MCP server and registers the tool surface. Memory tools
// are registered only when a memory directory is configured; search and
// refresh are always registered and gated per call.
func New(uc *usecase.UseCases, version string, opts ...Options) (*Controller, error) {
	c := &Controller{uc: uc}
	for _, opt := range opts {
		opt(c)
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "slack-mcp-server",
		Version: version,
	}, nil)

	registrations := []func(*mcp.Server) error{
		c.registerChannelTools,
		c.registerUserTools,
		c.registerSearchTool,
		c.registerRefreshTool,
		c.registerErrorLogTools,
	}
	if uc.HasMemory() {
		registrations = append(registrations, c.registerMemoryTools)
	}
	for _, register := range registrations {
		if err := register(server); err != nil {
			return nil, err
		}
	}

	c.server = server
	return c, nil
}

// Server returns the underlying MCP server for transport binding
func (c *Controller) Server() *mcp.Server {
	return c.server
}

// Run serves MCP over stdio until the context ends or the client
// disconnects.
func (c *Controller) Run(ctx context.Context) error {
	return c.server.Run(ctx, &mcp.StdioTransport{})
}
