package usecase

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
)

// ListMemories returns all stored notes, newest modification first
func (uc *UseCases) ListMemories() (map[string]any, error) {
	if uc.memory == nil {
		return nil, ErrMemoryNotConfigured
	}

	memories, err := uc.memory.List()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list memories")
	}
	if memories == nil {
		memories = []model.MemoryInfo{}
	}

	return map[string]any{
		"memories": memories,
		"count":    len(memories),
	}, nil
}

// ReadMemory returns one note's content
func (uc *UseCases) ReadMemory(name string) (map[string]any, error) {
	if uc.memory == nil {
		return nil, ErrMemoryNotConfigured
	}

	file, err := uc.memory.Read(name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read memory", goerr.V("name", name))
	}

	return map[string]any{
		"name":    file.Name,
		"content": file.Content,
	}, nil
}

// WriteMemory creates or replaces a note
func (uc *UseCases) WriteMemory(name, content string) (map[string]any, error) {
	if uc.memory == nil {
		return nil, ErrMemoryNotConfigured
	}

	info, err := uc.memory.Write(name, content)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to write memory", goerr.V("name", name))
	}

	return map[string]any{
		"name":    info.Name,
		"size":    info.Size,
		"message": fmt.Sprintf("memory %q saved", info.Name),
	}, nil
}

// SearchMemories finds notes whose name or content matches the query
func (uc *UseCases) SearchMemories(query string, limit int) (map[string]any, error) {
	if uc.memory == nil {
		return nil, ErrMemoryNotConfigured
	}
	if limit <= 0 {
		limit = defaultMemoryLimit
	}

	matches, err := uc.memory.Search(query, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search memories", goerr.V("query", query))
	}
	if matches == nil {
		matches = []model.MemoryMatch{}
	}

	return map[string]any{
		"matches": matches,
		"count":   len(matches),
	}, nil
}
