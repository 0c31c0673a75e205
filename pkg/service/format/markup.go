package format

import (
	"context"
	"regexp"
	"strings"
)

// MentionResolver resolves a user ID to a display name. Unknown IDs
// come back unchanged.
type MentionResolver interface {
	DisplayName(ctx context.Context, id string) string
}

var (
	channelLabelRe = regexp.MustCompile(`<#([A-Z0-9]+)\|([^>]*)>`)
	channelRefRe   = regexp.MustCompile(`<#([A-Z0-9]+)>`)
	linkLabelRe    = regexp.MustCompile(`<(https?://[^|>]+)\|([^>]*)>`)
	linkRe         = regexp.MustCompile(`<(https?://[^|>]+)>`)
	mentionRe      = regexp.MustCompile(`<@([UW][A-Z0-9]+)>`)

	// Entities decode in a single pass so doubly-escaped input is not
	// decoded twice.
	entityReplacer = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")
)

// CleanMarkup rewrites Slack message markup into plain readable text:
// channel references become "#name", links become Markdown, user
// mentions resolve to "@display". HTML entities decode last so escaped
// characters inside link labels survive the link rewrite.
func CleanMarkup(ctx context.Context, text string, resolver MentionResolver) string {
	if text == "" {
		return ""
	}

	// 1. Channel references: prefer the embedded name, fall back to the ID
	text = channelLabelRe.ReplaceAllStringFunc(text, func(token string) string {
		m := channelLabelRe.FindStringSubmatch(token)
		if m[2] != "" {
			return "#" + m[2]
		}
		return "#" + m[1]
	})
	text = channelRefRe.ReplaceAllString(text, "#$1")

	// 2. Links: labeled first, bare second
	text = linkLabelRe.ReplaceAllString(text, "[$2]($1)")
	text = linkRe.ReplaceAllString(text, "$1")

	// 3. Mentions resolve through the user cache; without one the raw
	// ID is kept
	text = mentionRe.ReplaceAllStringFunc(text, func(token string) string {
		m := mentionRe.FindStringSubmatch(token)
		if resolver == nil {
			return "@" + m[1]
		}
		return "@" + resolver.DisplayName(ctx, m[1])
	})

	// 4. Entities decode last
	return entityReplacer.Replace(text)
}
