package usecase

import (
	"context"

	"github.com/toolbridge/slack-mcp-server/pkg/service/format"
)

// ListChannels returns one page of public channels. The cursor comes back
// verbatim from Slack; an empty cursor means the first page.
func (uc *UseCases) ListChannels(ctx context.Context, limit int, cursor string) (map[string]any, error) {
	if limit <= 0 {
		limit = defaultChannelLimit
	}

	svc, err := uc.holder.Get()
	if err != nil {
		return nil, err
	}

	page, err := svc.ListChannels(ctx, limit, cursor)
	if err != nil {
		return nil, withSubject(err, "conversations.list")
	}

	channels := make([]any, 0, len(page.Channels))
	for _, ch := range page.Channels {
		entry := map[string]any{
			"id":         ch.ID,
			"name":       ch.Name,
			"topic":      ch.Topic,
			"purpose":    ch.Purpose,
			"isPrivate":  ch.IsPrivate,
			"isArchived": ch.IsArchived,
			"numMembers": ch.NumMembers,
		}
		if v := format.StripEmpty(entry); v != nil {
			channels = append(channels, v)
		}
	}

	out := map[string]any{
		"channels": channels,
		"count":    len(channels),
	}
	if page.NextCursor != "" {
		out["nextCursor"] = page.NextCursor
	}
	return out, nil
}
