package usecase

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
)

// ReadErrorLog returns recent diagnostic records, newest first
func (uc *UseCases) ReadErrorLog(limit int) (map[string]any, error) {
	if uc.errlog == nil {
		return nil, goerr.Wrap(ErrErrorLogUnavailable, "cannot read error log")
	}
	if limit <= 0 {
		limit = defaultErrorLogLimit
	}
	if limit > maxErrorLogLimit {
		limit = maxErrorLogLimit
	}

	records, err := uc.errlog.ReadRecent(limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read error log")
	}
	if records == nil {
		records = []model.ErrorRecord{}
	}

	return map[string]any{
		"entries": records,
		"count":   len(records),
	}, nil
}

// ClearErrorLog removes diagnostic records older than the cutoff, or all of
// them when no cutoff is given
func (uc *UseCases) ClearErrorLog(before *time.Time) (map[string]any, error) {
	if uc.errlog == nil {
		return nil, goerr.Wrap(ErrErrorLogUnavailable, "cannot clear error log")
	}

	removed, err := uc.errlog.Clear(before)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to clear error log")
	}

	out := map[string]any{"cleared": removed}
	if before != nil {
		out["before"] = before.UTC().Format(time.RFC3339)
	}
	return out, nil
}
