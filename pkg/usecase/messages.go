package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/toolbridge/slack-mcp-server/pkg/service/format"
	"github.com/toolbridge/slack-mcp-server/pkg/service/slackapi"
)

// ChannelHistory returns formatted messages from a channel, newest first as
// Slack delivers them. The channel may be an id, a "#name", or a bare name.
func (uc *UseCases) ChannelHistory(ctx context.Context, channel string, limit int, oldest, latest string) (map[string]any, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	svc, err := uc.holder.Get()
	if err != nil {
		return nil, err
	}

	channelID := uc.channels.ResolveChannelID(ctx, channel)
	page, err := svc.ChannelHistory(ctx, channelID, limit, oldest, latest)
	if err != nil {
		return nil, withSubject(err, "channel "+channelID)
	}

	return uc.formatHistory(ctx, page), nil
}

// ThreadReplies returns the messages of one thread, parent first
func (uc *UseCases) ThreadReplies(ctx context.Context, channel, threadTS string, limit int) (map[string]any, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	svc, err := uc.holder.Get()
	if err != nil {
		return nil, err
	}

	channelID := uc.channels.ResolveChannelID(ctx, channel)
	page, err := svc.ThreadReplies(ctx, channelID, threadTS, limit)
	if err != nil {
		return nil, withSubject(err, fmt.Sprintf("thread %s in channel %s", threadTS, channelID))
	}

	return uc.formatHistory(ctx, page), nil
}

func (uc *UseCases) formatHistory(ctx context.Context, page *slackapi.HistoryPage) map[string]any {
	now := uc.clock.Now()

	authors := make([]string, 0, len(page.Messages))
	for _, msg := range page.Messages {
		authors = append(authors, messageAuthor(msg))
	}
	names := uc.users.ResolveMany(ctx, authors)

	messages := make([]any, 0, len(page.Messages))
	for _, msg := range page.Messages {
		messages = append(messages, uc.formatMessage(ctx, msg, now, names))
	}

	out := map[string]any{
		"messages": messages,
		"hasMore":  page.HasMore,
	}
	if page.NextCursor != "" {
		out["nextCursor"] = page.NextCursor
	}
	return out
}

// formatMessage runs one message through the format pipeline. The id is the
// raw Slack ts so callers can feed it back into the thread tools.
func (uc *UseCases) formatMessage(ctx context.Context, msg slackapi.Message, now time.Time, names map[string]string) map[string]any {
	out := map[string]any{
		"id":   msg.TS,
		"time": format.FormatRelativeTime(msg.TS, now),
		"text": format.CleanMarkup(ctx, msg.Text, uc.users),
	}

	if author := messageAuthor(msg); author != "" {
		out["user"] = names[author]
	}
	if msg.ThreadTS != "" && msg.ThreadTS != msg.TS {
		out["threadId"] = msg.ThreadTS
	}
	if msg.ReplyCount > 0 {
		out["replyCount"] = msg.ReplyCount
	}
	if reactions := format.CompactReactions(msg.Reactions); reactions != nil {
		out["reactions"] = reactions
	}

	return format.StripMessage(out)
}

func messageAuthor(msg slackapi.Message) string {
	if msg.User != "" {
		return msg.User
	}
	return msg.BotID
}
