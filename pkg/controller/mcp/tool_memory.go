package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/toolbridge/slack-mcp-server/pkg/utils/logging"
)

const maxMemorySearchLimit = 100

type listMemoriesInput struct{}

type readMemoryInput struct {
	Name string `json:"name"`
}

type writeMemoryInput struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type searchMemoriesInput struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

func (c *Controller) registerMemoryTools(server *mcp.Server) error {
	if err := register(server, &mcp.Tool{
		Name:        "list_memories",
		Description: "List stored memory notes with name, size and modification time, newest first.",
		Annotations: readOnlyAnnotations(),
	}, c.listMemories); err != nil {
		return err
	}

	if err := register(server, &mcp.Tool{
		Name:        "read_memory",
		Description: "Read one memory note by name. The .md extension is optional.",
		Annotations: readOnlyAnnotations(),
	}, c.readMemory); err != nil {
		return err
	}

	if err := register(server, &mcp.Tool{
		Name: "write_memory",
		Description: "Create or replace a memory note. Names may contain letters, digits, dot, dash and " +
			"underscore; the .md extension is appended when missing.",
	}, c.writeMemory); err != nil {
		return err
	}

	return register(server, &mcp.Tool{
		Name: "search_memories",
		Description: "Search memory notes by case-insensitive substring over names and content. Hits carry " +
			"up to three matched line excerpts per note.",
		Annotations: readOnlyAnnotations(),
	}, c.searchMemories)
}

func (c *Controller) listMemories(ctx context.Context, _ *mcp.CallToolRequest, _ listMemoriesInput) (*mcp.CallToolResult, any, error) {
	logging.From(ctx).Debug("tool call", "tool", "list_memories")

	out, err := c.uc.ListMemories()
	if err != nil {
		return c.errorResult(ctx, "list_memories", err), nil, nil
	}
	return c.textResult(ctx, "list_memories", out), nil, nil
}

func (c *Controller) readMemory(ctx context.Context, _ *mcp.CallToolRequest, in readMemoryInput) (*mcp.CallToolResult, any, error) {
	logging.From(ctx).Debug("tool call", "tool", "read_memory", "name", in.Name)

	if err := requireString("name", in.Name); err != nil {
		return c.errorResult(ctx, "read_memory", err), nil, nil
	}

	out, err := c.uc.ReadMemory(in.Name)
	if err != nil {
		return c.errorResult(ctx, "read_memory", err), nil, nil
	}
	return c.textResult(ctx, "read_memory", out), nil, nil
}

func (c *Controller) writeMemory(ctx context.Context, _ *mcp.CallToolRequest, in writeMemoryInput) (*mcp.CallToolResult, any, error) {
	logging.From(ctx).Debug("tool call", "tool", "write_memory", "name", in.Name, "bytes", len(in.Content))

	if err := requireString("name", in.Name); err != nil {
		return c.errorResult(ctx, "write_memory", err), nil, nil
	}
	if err := requireString("content", in.Content); err != nil {
		return c.errorResult(ctx, "write_memory", err), nil, nil
	}

	out, err := c.uc.WriteMemory(in.Name, in.Content)
	if err != nil {
		return c.errorResult(ctx, "write_memory", err), nil, nil
	}
	return c.textResult(ctx, "write_memory", out), nil, nil
}

func (c *Controller) searchMemories(ctx context.Context, _ *mcp.CallToolRequest, in searchMemoriesInput) (*mcp.CallToolResult, any, error) {
	logging.From(ctx).Debug("tool call", "tool", "search_memories", "query", in.Query, "limit", in.Limit)

	if err := requireString("query", in.Query); err != nil {
		return c.errorResult(ctx, "search_memories", err), nil, nil
	}
	if err := boundedLimit("limit", in.Limit, maxMemorySearchLimit); err != nil {
		return c.errorResult(ctx, "search_memories", err), nil, nil
	}

	out, err := c.uc.SearchMemories(in.Query, in.Limit)
	if err != nil {
		return c.errorResult(ctx, "search_memories", err), nil, nil
	}
	return c.textResult(ctx, "search_memories", out), nil, nil
}
