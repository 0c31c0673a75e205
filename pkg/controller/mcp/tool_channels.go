package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/toolbridge/slack-mcp-server/pkg/utils/logging"
)

const maxListLimit = 1000

type listChannelsInput struct {
	Limit  int    `json:"limit,omitempty"`
	Cursor string `json:"cursor,omitempty"`
}

type channelHistoryInput struct {
	ChannelID string `json:"channel_id"`
	Limit     int    `json:"limit,omitempty"`
	Oldest    string `json:"oldest,omitempty"`
	Latest    string `json:"latest,omitempty"`
}

type threadRepliesInput struct {
	ChannelID string `json:"channel_id"`
	ThreadTS  string `json:"thread_ts"`
	Limit     int    `json:"limit,omitempty"`
}

func (c *Controller) registerChannelTools(server *mcp.Server) error {
	if err := register(server, &mcp.Tool{
		Name: "list_channels",
		Description: "List public Slack channels, archived ones included. Each entry carries id, name, topic, " +
			"purpose and member count. Private channels and DMs are not listed but their raw IDs work in the " +
			"other tools. Pass the returned nextCursor to fetch the following page.",
		Annotations: readOnlyAnnotations(),
	}, c.listChannels); err != nil {
		return err
	}

	if err := register(server, &mcp.Tool{
		Name: "get_channel_history",
		Description: "Fetch recent messages from a channel, newest first. channel_id accepts a raw ID " +
			"(C…, D…, G…) or a #channel-name. oldest and latest are Slack timestamps bounding the window. " +
			"Messages carry relative times, resolved author names, reply counts and reaction totals.",
		Annotations: readOnlyAnnotations(),
	}, c.channelHistory); err != nil {
		return err
	}

	return register(server, &mcp.Tool{
		Name: "get_thread_replies",
		Description: "Fetch a thread by its parent message timestamp: the parent first, then replies in " +
			"chronological order.",
		Annotations: readOnlyAnnotations(),
	}, c.threadReplies)
}

func (c *Controller) listChannels(ctx context.Context, _ *mcp.CallToolRequest, in listChannelsInput) (*mcp.CallToolResult, any, error) {
	logging.From(ctx).Debug("tool call", "tool", "list_channels", "limit", in.Limit, "cursor", in.Cursor)

	if err := boundedLimit("limit", in.Limit, maxListLimit); err != nil {
		return c.errorResult(ctx, "list_channels", err), nil, nil
	}

	out, err := c.uc.ListChannels(ctx, in.Limit, in.Cursor)
	if err != nil {
		return c.errorResult(ctx, "list_channels", err), nil, nil
	}
	return c.textResult(ctx, "list_channels", out), nil, nil
}

func (c *Controller) channelHistory(ctx context.Context, _ *mcp.CallToolRequest, in channelHistoryInput) (*mcp.CallToolResult, any, error) {
	logging.From(ctx).Debug("tool call", "tool", "get_channel_history", "channel", in.ChannelID, "limit", in.Limit)

	if err := requireString("channel_id", in.ChannelID); err != nil {
		return c.errorResult(ctx, "get_channel_history", err), nil, nil
	}
	if err := boundedLimit("limit", in.Limit, maxListLimit); err != nil {
		return c.errorResult(ctx, "get_channel_history", err), nil, nil
	}

	out, err := c.uc.ChannelHistory(ctx, in.ChannelID, in.Limit, in.Oldest, in.Latest)
	if err != nil {
		return c.errorResult(ctx, "get_channel_history", err), nil, nil
	}
	return c.textResult(ctx, "get_channel_history", out), nil, nil
}

func (c *Controller) threadReplies(ctx context.Context, _ *mcp.CallToolRequest, in threadRepliesInput) (*mcp.CallToolResult, any, error) {
	logging.From(ctx).Debug("tool call", "tool", "get_thread_replies", "channel", in.ChannelID, "thread_ts", in.ThreadTS)

	if err := requireString("channel_id", in.ChannelID); err != nil {
		return c.errorResult(ctx, "get_thread_replies", err), nil, nil
	}
	if err := requireString("thread_ts", in.ThreadTS); err != nil {
		return c.errorResult(ctx, "get_thread_replies", err), nil, nil
	}
	if err := boundedLimit("limit", in.Limit, maxListLimit); err != nil {
		return c.errorResult(ctx, "get_thread_replies", err), nil, nil
	}

	out, err := c.uc.ThreadReplies(ctx, in.ChannelID, in.ThreadTS, in.Limit)
	if err != nil {
		return c.errorResult(ctx, "get_thread_replies", err), nil, nil
	}
	return c.textResult(ctx, "get_thread_replies", out), nil, nil
}
