package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/types"
	"github.com/toolbridge/slack-mcp-server/pkg/utils/logging"
)

const maxErrorLogLimit = 500

type readErrorLogInput struct {
	Limit int `json:"limit,omitempty"`
}

type clearErrorLogInput struct {
	Before string `json:"before,omitempty"`
}

func (c *Controller) registerErrorLogTools(server *mcp.Server) error {
	if err := register(server, &mcp.Tool{
		Name: "read_error_log",
		Description: "Read recent diagnostic records (Slack API failures, credential refresh attempts), " +
			"newest first.",
		Annotations: readOnlyAnnotations(),
	}, c.readErrorLog); err != nil {
		return err
	}

	return register(server, &mcp.Tool{
		Name: "clear_error_log",
		Description: "Delete diagnostic records. With before set to an ISO-8601 timestamp only older " +
			"records are removed, otherwise the log is emptied.",
	}, c.clearErrorLog)
}

func (c *Controller) readErrorLog(ctx context.Context, _ *mcp.CallToolRequest, in readErrorLogInput) (*mcp.CallToolResult, any, error) {
	logging.From(ctx).Debug("tool call", "tool", "read_error_log", "limit", in.Limit)

	if err := boundedLimit("limit", in.Limit, maxErrorLogLimit); err != nil {
		return c.errorResult(ctx, "read_error_log", err), nil, nil
	}

	out, err := c.uc.ReadErrorLog(in.Limit)
	if err != nil {
		return c.errorResult(ctx, "read_error_log", err), nil, nil
	}
	return c.textResult(ctx, "read_error_log", out), nil, nil
}

func (c *Controller) clearErrorLog(ctx context.Context, _ *mcp.CallToolRequest, in clearErrorLogInput) (*mcp.CallToolResult, any, error) {
	logging.From(ctx).Debug("tool call", "tool", "clear_error_log", "before", in.Before)

	var before *time.Time
	if in.Before != "" {
		t, err := time.Parse(time.RFC3339, in.Before)
		if err != nil {
			return c.errorResult(ctx, "clear_error_log", model.NewAPIError(types.APIErrInvalidInput,
				fmt.Sprintf("before must be an ISO-8601 timestamp, got %q", in.Before))), nil, nil
		}
		before = &t
	}

	out, err := c.uc.ClearErrorLog(before)
	if err != nil {
		return c.errorResult(ctx, "clear_error_log", err), nil, nil
	}
	return c.textResult(ctx, "clear_error_log", out), nil, nil
}
