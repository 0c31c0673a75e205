package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/toolbridge/slack-mcp-server/pkg/utils/logging"
)

type refreshCredentialsInput struct{}

func (c *Controller) registerRefreshTool(server *mcp.Server) error {
	nonDestructive := false
	return register(server, &mcp.Tool{
		Name: "refresh_credentials",
		Description: "Force an immediate refresh of the stored browser session credentials. Only available " +
			"with user authentication and a configured workspace. Reports success or a classified failure " +
			"in the result body.",
		Annotations: &mcp.ToolAnnotations{
			IdempotentHint:  true,
			DestructiveHint: &nonDestructive,
		},
	}, c.refreshCredentials)
}

// refreshCredentials always reports through the success envelope; rejected
// and failed refreshes carry success=false in the payload instead of the
// protocol error flag.
func (c *Controller) refreshCredentials(ctx context.Context, _ *mcp.CallToolRequest, _ refreshCredentialsInput) (*mcp.CallToolResult, any, error) {
	logging.From(ctx).Debug("tool call", "tool", "refresh_credentials")

	out := c.uc.RefreshCredentials(ctx)
	return c.textResult(ctx, "refresh_credentials", out), nil, nil
}
