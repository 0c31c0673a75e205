package format

import "github.com/toolbridge/slack-mcp-server/pkg/service/slackapi"

// CompactReactions flattens a message's reaction list into an
// emoji-to-count map. Entries with an empty name are dropped; a nil map
// is returned when nothing remains so the field strips away entirely.
func CompactReactions(reactions []slackapi.Reaction) map[string]int {
	if len(reactions) == 0 {
		return nil
	}

	compact := make(map[string]int, len(reactions))
	for _, r := range reactions {
		if r.Name == "" {
			continue
		}
		compact[r.Name] += r.Count
	}
	if len(compact) == 0 {
		return nil
	}
	return compact
}
