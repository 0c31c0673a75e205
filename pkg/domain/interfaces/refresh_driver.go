package interfaces

import (
	"context"

	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
)

// RefreshDriver drives on-demand credential refreshes. Implemented by the
// refresh scheduler; consumed by the refresh tool.
type RefreshDriver interface {
	// TriggerManual runs a manual refresh with retries, regardless of the
	// schedule. Returns the newly persisted credentials on success.
	TriggerManual(ctx context.Context) (*model.StoredCredentials, error)
}
