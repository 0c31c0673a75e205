package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/toolbridge/slack-mcp-server/pkg/utils/logging"
)

// Close closes an io.Closer and logs instead of dropping the error.
// Nil closers are ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}
