package usecase

import (
	"context"
	"time"

	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/types"
	"github.com/toolbridge/slack-mcp-server/pkg/utils/logging"
)

// RefreshCredentials runs a manual credential refresh. The result is always
// a structured payload: refresh failures are reported as {success:false},
// not as tool errors.
func (uc *UseCases) RefreshCredentials(ctx context.Context) map[string]any {
	if uc.holder.Auth().Mode() != types.AuthModeUser {
		return uc.refreshRejected(ctx, msgRefreshBotAuth)
	}
	if !uc.IsRefreshAvailable() {
		return uc.refreshRejected(ctx, msgRefreshNoWorkspace)
	}

	creds, err := uc.driver.TriggerManual(ctx)
	if err != nil {
		return refreshFailure(model.AsRefreshError(err))
	}

	return map[string]any{
		"success":        true,
		"message":        "Credentials refreshed successfully",
		"refreshedAt":    creds.Metadata.LastRefreshed.Format(time.RFC3339),
		"totalRefreshes": creds.Metadata.RefreshCount,
	}
}

// refreshRejected reports a capability gate failure. The refresh manager
// never sees gated calls, so the diagnostic record is written here.
func (uc *UseCases) refreshRejected(ctx context.Context, message string) map[string]any {
	refreshErr := model.NewRefreshError(types.RefreshErrNotAvailable, message)

	logging.From(ctx).Warn("refresh rejected", "reason", message)
	if uc.errlog != nil {
		uc.errlog.Append(model.ErrorRecord{
			Level:     model.ErrorLevelWarn,
			Component: "refresh",
			Code:      refreshErr.Code.String(),
			Message:   refreshErr.Message,
			Retryable: refreshErr.Retryable,
		})
	}

	return refreshFailure(refreshErr)
}

func refreshFailure(refreshErr *model.RefreshError) map[string]any {
	return map[string]any{
		"success": false,
		"error": map[string]any{
			"code":      refreshErr.Code.String(),
			"message":   refreshErr.Message,
			"retryable": refreshErr.Retryable,
		},
	}
}
