package interfaces

import (
	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
)

// MemoryStore is the local Markdown note directory exposed through the
// memory tools.
type MemoryStore interface {
	// List returns all notes, newest modification first
	List() ([]model.MemoryInfo, error)

	// Read returns one note by name
	Read(name string) (*model.MemoryFile, error)

	// Write creates or replaces a note and returns its metadata
	Write(name, content string) (*model.MemoryInfo, error)

	// Search finds notes matching the query, with per-file line excerpts
	Search(query string, limit int) ([]model.MemoryMatch, error)
}
