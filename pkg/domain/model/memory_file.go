package model

import "time"

// MemoryInfo is metadata for one Markdown note in the memory directory
type MemoryInfo struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// MemoryFile is a note with its full content
type MemoryFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// MemoryMatch is one search hit with the matched line excerpts
type MemoryMatch struct {
	Name     string   `json:"name"`
	Excerpts []string `json:"excerpts"`
}
