package model

import "time"

// Severity levels of diagnostic log records
const (
	ErrorLevelError = "error"
	ErrorLevelWarn  = "warn"
)

// ErrorRecord is one line of the append-only diagnostic log. Records are
// serialized as single-line JSON objects (JSONL).
type ErrorRecord struct {
	Timestamp time.Time      `json:"ts"`
	Level     string         `json:"level"`
	Component string         `json:"component"`
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Tool      string         `json:"tool,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
	Attempt   int            `json:"attempt,omitempty"`
	Retryable bool           `json:"retryable"`
}
