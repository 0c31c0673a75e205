package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/types"
	"github.com/toolbridge/slack-mcp-server/pkg/utils/errutil"
	"github.com/toolbridge/slack-mcp-server/pkg/utils/logging"
)

// register builds the input schema for a typed tool handler and adds the
// tool to the server. Handlers always return a fully built result, so the
// output side stays schemaless.
func register[In any](server *mcp.Server, tool *mcp.Tool, handler mcp.ToolHandlerFor[In, any]) error {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		return goerr.Wrap(err, "failed to build tool input schema", goerr.V("tool", tool.Name))
	}
	tool.InputSchema = schema
	mcp.AddTool(server, tool, handler)
	return nil
}

// readOnlyAnnotations marks a tool as read-only and idempotent
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
	}
}

// textResult wraps a tool payload in the dual-channel success shape: a JSON
// text block for plain clients plus the same object as structured content.
func (c *Controller) textResult(ctx context.Context, tool string, payload map[string]any) *mcp.CallToolResult {
	data, err := json.Marshal(payload)
	if err != nil {
		return c.errorResult(ctx, tool, goerr.Wrap(err, "failed to encode tool result"))
	}
	return &mcp.CallToolResult{
		Content:           []mcp.Content{&mcp.TextContent{Text: string(data)}},
		StructuredContent: payload,
	}
}

// errorResult renders a failure in the fixed "Error: <code> - <message>"
// shape and appends one diagnostic record for the call.
func (c *Controller) errorResult(ctx context.Context, tool string, err error) *mcp.CallToolResult {
	apiErr := model.AsAPIError(err)

	text := fmt.Sprintf("Error: %s - %s", apiErr.Code, apiErr.Message)
	if apiErr.Code == types.APIErrRateLimited && apiErr.RetryAfter > 0 {
		text += fmt.Sprintf(". Please retry after %d seconds.", apiErr.RetryAfter)
	}

	requestID := uuid.NewString()
	logging.From(ctx).Error("tool call failed",
		"tool", tool,
		"request_id", requestID,
		"code", apiErr.Code,
		"error", err,
	)
	if c.errlog != nil {
		recCtx := map[string]any{"request_id": requestID}
		for k, v := range errutil.Values(err) {
			recCtx[k] = v
		}
		c.errlog.Append(model.ErrorRecord{
			Level:     model.ErrorLevelError,
			Component: "tools",
			Code:      apiErr.Code.String(),
			Message:   apiErr.Message,
			Tool:      tool,
			Context:   recCtx,
			Retryable: apiErr.Retryable(),
		})
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

// boundedLimit validates an optional page-size argument. Zero keeps the
// tool's default.
func boundedLimit(name string, v, max int) error {
	if v == 0 {
		return nil
	}
	if v < 1 || v > max {
		return model.NewAPIError(types.APIErrInvalidInput,
			fmt.Sprintf("%s must be between 1 and %d", name, max))
	}
	return nil
}

// positiveArg validates an optional argument that has a floor but no
// ceiling. Zero keeps the tool's default.
func positiveArg(name string, v int) error {
	if v == 0 {
		return nil
	}
	if v < 1 {
		return model.NewAPIError(types.APIErrInvalidInput, name+" must be 1 or greater")
	}
	return nil
}

// requireString rejects required string arguments the schema cannot catch,
// such as explicit empty values.
func requireString(name, v string) error {
	if strings.TrimSpace(v) == "" {
		return model.NewAPIError(types.APIErrInvalidInput, name+" is required")
	}
	return nil
}
