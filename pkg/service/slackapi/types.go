package slackapi

import (
	"context"
	"strings"
)

// Service provides the read-only Slack Web API surface used by the tool
// handlers and the refresh engine.
type Service interface {
	// AuthTest validates the bound credentials via auth.test.
	AuthTest(ctx context.Context) (*AuthInfo, error)

	// ListChannels retrieves one page of conversations.list.
	// Archived channels are included so name resolution covers them.
	ListChannels(ctx context.Context, limit int, cursor string) (*ChannelPage, error)

	// ChannelHistory retrieves messages from a channel, newest first.
	// oldest and latest are raw Slack timestamps and may be empty.
	ChannelHistory(ctx context.Context, channelID string, limit int, oldest, latest string) (*HistoryPage, error)

	// ThreadReplies retrieves a thread by its parent timestamp, parent first.
	ThreadReplies(ctx context.Context, channelID, threadTS string, limit int) (*HistoryPage, error)

	// ListUsers retrieves all workspace users, including bots and
	// deactivated accounts so mention resolution stays complete.
	ListUsers(ctx context.Context) ([]User, error)

	// UserInfo retrieves a single user profile.
	UserInfo(ctx context.Context, userID string) (*User, error)

	// SearchMessages runs search.messages. Requires a user token;
	// bot tokens are rejected by Slack with not_allowed_token_type.
	SearchMessages(ctx context.Context, query string, count, page int) (*SearchPage, error)
}

// AuthInfo is the decoded auth.test response.
type AuthInfo struct {
	UserID string
	User   string
	TeamID string
	Team   string
	URL    string
}

// Channel represents a Slack conversation.
type Channel struct {
	ID         string
	Name       string
	Topic      string
	Purpose    string
	IsPrivate  bool
	IsArchived bool
	NumMembers int
}

// ChannelPage is one page of conversations.list.
type ChannelPage struct {
	Channels   []Channel
	NextCursor string
}

// Reaction is a single emoji reaction with its count.
type Reaction struct {
	Name  string
	Count int
}

// Message is a raw channel or thread message before formatting.
type Message struct {
	TS         string
	User       string
	BotID      string
	Text       string
	ThreadTS   string
	ReplyCount int
	Reactions  []Reaction
}

// HistoryPage is one page of conversations.history or conversations.replies.
type HistoryPage struct {
	Messages   []Message
	HasMore    bool
	NextCursor string
}

// User represents a workspace member.
type User struct {
	ID          string
	Name        string
	RealName    string
	DisplayName string
	Email       string
	Title       string
	TimeZone    string
	IsBot       bool
	IsAdmin     bool
	Deleted     bool
}

// PreferredName returns the name to show for the user: the profile
// display name when set, then the real name, then the account name,
// then the raw ID.
func (u User) PreferredName() string {
	if name := strings.TrimSpace(u.DisplayName); name != "" {
		return name
	}
	if u.RealName != "" {
		return u.RealName
	}
	if u.Name != "" {
		return u.Name
	}
	return u.ID
}

// SearchMatch is a single search.messages hit.
type SearchMatch struct {
	TS          string
	ChannelID   string
	ChannelName string
	UserID      string
	Username    string
	Text        string
	Permalink   string
}

// SearchPage is one page of search results.
type SearchPage struct {
	Matches    []SearchMatch
	TotalCount int
	Page       int
	PageCount  int
}
