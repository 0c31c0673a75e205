package interfaces

import (
	"time"

	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
)

// ErrorLogger is the append-only JSONL diagnostic log that every failure
// path funnels through.
type ErrorLogger interface {
	// Append writes one record. Write-path failures are swallowed so that
	// logging can never take the process down.
	Append(rec model.ErrorRecord)

	// ReadRecent returns up to limit records, newest first. Malformed lines
	// are skipped.
	ReadRecent(limit int) ([]model.ErrorRecord, error)

	// Clear removes records strictly before the cutoff and returns how many
	// were removed. A nil cutoff removes everything.
	Clear(before *time.Time) (int, error)
}
