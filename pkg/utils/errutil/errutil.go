package errutil

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/toolbridge/slack-mcp-server/pkg/utils/logging"
)

// Handle logs the error with a message and returns it unchanged.
// Errors carrying goerr context are logged with their values and stack.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error(msg, "error", err.Error())
	}

	return err
}

// Values extracts the goerr context values from an error chain for
// structured diagnostics. Returns nil when the error carries none.
func Values(err error) map[string]any {
	var ge *goerr.Error
	if errors.As(err, &ge) {
		return ge.Values()
	}
	return nil
}
