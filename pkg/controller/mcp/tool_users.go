package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/toolbridge/slack-mcp-server/pkg/utils/logging"
)

type listUsersInput struct {
	Limit int `json:"limit,omitempty"`
}

type userProfileInput struct {
	UserID string `json:"user_id"`
}

func (c *Controller) registerUserTools(server *mcp.Server) error {
	if err := register(server, &mcp.Tool{
		Name: "list_users",
		Description: "List workspace members with their username, real name, display name, email, title " +
			"and admin/bot flags. Deleted accounts are included and marked.",
		Annotations: readOnlyAnnotations(),
	}, c.listUsers); err != nil {
		return err
	}

	return register(server, &mcp.Tool{
		Name:        "get_user_profile",
		Description: "Fetch one user's profile by user ID (U… or W…).",
		Annotations: readOnlyAnnotations(),
	}, c.userProfile)
}

func (c *Controller) listUsers(ctx context.Context, _ *mcp.CallToolRequest, in listUsersInput) (*mcp.CallToolResult, any, error) {
	logging.From(ctx).Debug("tool call", "tool", "list_users", "limit", in.Limit)

	if err := boundedLimit("limit", in.Limit, maxListLimit); err != nil {
		return c.errorResult(ctx, "list_users", err), nil, nil
	}

	out, err := c.uc.ListUsers(ctx, in.Limit)
	if err != nil {
		return c.errorResult(ctx, "list_users", err), nil, nil
	}
	return c.textResult(ctx, "list_users", out), nil, nil
}

func (c *Controller) userProfile(ctx context.Context, _ *mcp.CallToolRequest, in userProfileInput) (*mcp.CallToolResult, any, error) {
	logging.From(ctx).Debug("tool call", "tool", "get_user_profile", "user", in.UserID)

	if err := requireString("user_id", in.UserID); err != nil {
		return c.errorResult(ctx, "get_user_profile", err), nil, nil
	}

	out, err := c.uc.UserProfile(ctx, in.UserID)
	if err != nil {
		return c.errorResult(ctx, "get_user_profile", err), nil, nil
	}
	return c.textResult(ctx, "get_user_profile", out), nil, nil
}
