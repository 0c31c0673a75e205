package usecase

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/types"
	"github.com/toolbridge/slack-mcp-server/pkg/service/format"
	"github.com/toolbridge/slack-mcp-server/pkg/service/slackapi"
	"github.com/toolbridge/slack-mcp-server/pkg/utils/logging"
)

// threadParentTextMax caps the enriched parent excerpt length
const threadParentTextMax = 200

// dmChannelNameRe spots DM results: search reports the counterpart's user
// id as the channel name
var dmChannelNameRe = regexp.MustCompile(`^[UW][A-Z0-9]+$`)

// SearchMessages runs a workspace search. Search is a user-token API, so
// bot-mode callers are rejected before any network call.
func (uc *UseCases) SearchMessages(ctx context.Context, query string, count, page int) (map[string]any, error) {
	if !uc.IsSearchAvailable() {
		return nil, model.NewAPIError(types.APIErrSearchRequiresUser, msgSearchRequiresUser)
	}
	if count <= 0 {
		count = defaultSearchCount
	}
	if page <= 0 {
		page = 1
	}

	svc, err := uc.holder.Get()
	if err != nil {
		return nil, err
	}

	resp, err := svc.SearchMessages(ctx, query, count, page)
	if err != nil {
		return nil, withSubject(err, "search.messages")
	}

	now := uc.clock.Now()
	parents := map[string]map[string]any{}
	results := make([]any, 0, len(resp.Matches))
	for _, match := range resp.Matches {
		results = append(results, uc.formatSearchMatch(ctx, svc, match, now, parents))
	}

	return map[string]any{
		"results":    results,
		"totalCount": resp.TotalCount,
		"page":       resp.Page,
		"pageCount":  resp.PageCount,
	}, nil
}

func (uc *UseCases) formatSearchMatch(ctx context.Context, svc slackapi.Service, match slackapi.SearchMatch, now time.Time, parents map[string]map[string]any) map[string]any {
	out := map[string]any{
		"id":      match.TS,
		"channel": uc.searchChannelLabel(ctx, match),
		"time":    format.FormatRelativeTime(match.TS, now),
		"text":    format.CleanMarkup(ctx, match.Text, uc.users),
	}

	if match.UserID != "" {
		out["user"] = uc.users.Resolve(ctx, match.UserID)
	} else if match.Username != "" {
		out["user"] = match.Username
	}

	if threadTS := threadTSFromPermalink(match.Permalink); threadTS != "" && threadTS != match.TS {
		out["threadId"] = threadTS
		if parent := uc.threadParent(ctx, svc, match.ChannelID, threadTS, now, parents); parent != nil {
			out["threadParent"] = parent
		}
	}

	return format.StripMessage(out)
}

func (uc *UseCases) searchChannelLabel(ctx context.Context, match slackapi.SearchMatch) string {
	if match.ChannelName == "" {
		return match.ChannelID
	}
	if dmChannelNameRe.MatchString(match.ChannelName) {
		return fmt.Sprintf("DM: %s (%s)", uc.users.DisplayName(ctx, match.ChannelName), match.ChannelID)
	}
	return fmt.Sprintf("#%s (%s)", match.ChannelName, match.ChannelID)
}

// threadParent fetches the first message of a thread for context. Parents
// are fetched once per (channel, thread) across one search response; any
// failure leaves the result without enrichment.
func (uc *UseCases) threadParent(ctx context.Context, svc slackapi.Service, channelID, threadTS string, now time.Time, parents map[string]map[string]any) map[string]any {
	key := channelID + ":" + threadTS
	if cached, ok := parents[key]; ok {
		return cached
	}
	parents[key] = nil

	page, err := svc.ThreadReplies(ctx, channelID, threadTS, 1)
	if err != nil || len(page.Messages) == 0 {
		logging.From(ctx).Debug("thread parent lookup failed",
			"channel_id", channelID,
			"thread_ts", threadTS,
			"error", err,
		)
		return nil
	}

	msg := page.Messages[0]
	text := format.CleanMarkup(ctx, msg.Text, uc.users)
	if runes := []rune(text); len(runes) > threadParentTextMax {
		text = string(runes[:threadParentTextMax]) + "..."
	}

	parent := map[string]any{
		"time": format.FormatRelativeTime(msg.TS, now),
		"text": text,
	}
	if author := messageAuthor(msg); author != "" {
		parent["user"] = uc.users.Resolve(ctx, author)
	}

	parents[key] = parent
	return parent
}

// threadTSFromPermalink recovers the thread root ts that Slack encodes as a
// query parameter on threaded-message permalinks
func threadTSFromPermalink(permalink string) string {
	u, err := url.Parse(permalink)
	if err != nil {
		return ""
	}
	return u.Query().Get("thread_ts")
}
