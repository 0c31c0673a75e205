package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/toolbridge/slack-mcp-server/pkg/utils/logging"
)

const maxSearchCount = 100

type searchMessagesInput struct {
	Query string `json:"query"`
	Count int    `json:"count,omitempty"`
	Page  int    `json:"page,omitempty"`
}

func (c *Controller) registerSearchTool(server *mcp.Server) error {
	return register(server, &mcp.Tool{
		Name: "search_messages",
		Description: "Search messages across the workspace using Slack query syntax, such as from:@user, " +
			"in:#channel and quoted phrases. Requires user authentication; bot tokens cannot search. " +
			"Matches that are part of a thread carry the thread parent for context.",
		Annotations: readOnlyAnnotations(),
	}, c.searchMessages)
}

func (c *Controller) searchMessages(ctx context.Context, _ *mcp.CallToolRequest, in searchMessagesInput) (*mcp.CallToolResult, any, error) {
	logging.From(ctx).Debug("tool call", "tool", "search_messages", "query", in.Query, "count", in.Count, "page", in.Page)

	if err := requireString("query", in.Query); err != nil {
		return c.errorResult(ctx, "search_messages", err), nil, nil
	}
	if err := boundedLimit("count", in.Count, maxSearchCount); err != nil {
		return c.errorResult(ctx, "search_messages", err), nil, nil
	}
	if err := positiveArg("page", in.Page); err != nil {
		return c.errorResult(ctx, "search_messages", err), nil, nil
	}

	out, err := c.uc.SearchMessages(ctx, in.Query, in.Count, in.Page)
	if err != nil {
		return c.errorResult(ctx, "search_messages", err), nil, nil
	}
	return c.textResult(ctx, "search_messages", out), nil, nil
}
