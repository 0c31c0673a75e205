package slackapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/types"
)

const defaultHTTPTimeout = 30 * time.Second

// cookieTransport injects the session cookie required by xoxc user
// tokens into every outgoing request.
type cookieTransport struct {
	base   http.RoundTripper
	cookie string
}

func (t *cookieTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Add("Cookie", "d="+t.cookie)
	return t.base.RoundTrip(req)
}

// client implements Service over slack-go
type client struct {
	api        *slack.Client
	httpClient *http.Client
	apiURL     string
}

// Option is a functional option for client configuration
type Option func(*client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithAPIURL overrides the Slack API base URL (for tests)
func WithAPIURL(u string) Option {
	return func(c *client) {
		c.apiURL = u
	}
}

// New creates a Slack service bound to the given credentials. User-mode
// clients send the xoxd session cookie alongside the token.
func New(auth model.AuthConfig, opts ...Option) (Service, error) {
	if auth.IsZero() {
		return nil, goerr.New("Slack credentials are required")
	}

	c := &client{}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if auth.Mode() == types.AuthModeUser {
		base := c.httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		c.httpClient = &http.Client{
			Timeout:   c.httpClient.Timeout,
			Transport: &cookieTransport{base: base, cookie: auth.Cookie()},
		}
	}

	slackOpts := []slack.Option{slack.OptionHTTPClient(c.httpClient)}
	if c.apiURL != "" {
		slackOpts = append(slackOpts, slack.OptionAPIURL(c.apiURL))
	}
	c.api = slack.New(auth.Token(), slackOpts...)

	return c, nil
}

func (c *client) AuthTest(ctx context.Context) (*AuthInfo, error) {
	resp, err := c.api.AuthTestContext(ctx)
	if err != nil {
		return nil, mapErr(err)
	}

	return &AuthInfo{
		UserID: resp.UserID,
		User:   resp.User,
		TeamID: resp.TeamID,
		Team:   resp.Team,
		URL:    resp.URL,
	}, nil
}

func (c *client) ListChannels(ctx context.Context, limit int, cursor string) (*ChannelPage, error) {
	convs, nextCursor, err := c.api.GetConversationsContext(ctx, &slack.GetConversationsParameters{
		Types:           []string{"public_channel"},
		ExcludeArchived: false,
		Limit:           limit,
		Cursor:          cursor,
	})
	if err != nil {
		return nil, mapErr(err)
	}

	page := &ChannelPage{
		Channels:   make([]Channel, 0, len(convs)),
		NextCursor: nextCursor,
	}
	for _, conv := range convs {
		page.Channels = append(page.Channels, Channel{
			ID:         conv.ID,
			Name:       conv.Name,
			Topic:      conv.Topic.Value,
			Purpose:    conv.Purpose.Value,
			IsPrivate:  conv.IsPrivate,
			IsArchived: conv.IsArchived,
			NumMembers: conv.NumMembers,
		})
	}
	return page, nil
}

func (c *client) ChannelHistory(ctx context.Context, channelID string, limit int, oldest, latest string) (*HistoryPage, error) {
	resp, err := c.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Limit:     limit,
		Oldest:    oldest,
		Latest:    latest,
	})
	if err != nil {
		return nil, mapErr(err)
	}

	page := &HistoryPage{
		Messages:   make([]Message, 0, len(resp.Messages)),
		HasMore:    resp.HasMore,
		NextCursor: resp.ResponseMetaData.NextCursor,
	}
	for _, msg := range resp.Messages {
		page.Messages = append(page.Messages, convertMessage(msg))
	}
	return page, nil
}

func (c *client) ThreadReplies(ctx context.Context, channelID, threadTS string, limit int) (*HistoryPage, error) {
	msgs, hasMore, nextCursor, err := c.api.GetConversationRepliesContext(ctx, &slack.GetConversationRepliesParameters{
		ChannelID: channelID,
		Timestamp: threadTS,
		Limit:     limit,
	})
	if err != nil {
		return nil, mapErr(err)
	}

	page := &HistoryPage{
		Messages:   make([]Message, 0, len(msgs)),
		HasMore:    hasMore,
		NextCursor: nextCursor,
	}
	for _, msg := range msgs {
		page.Messages = append(page.Messages, convertMessage(msg))
	}
	return page, nil
}

func (c *client) ListUsers(ctx context.Context) ([]User, error) {
	users, err := c.api.GetUsersContext(ctx)
	if err != nil {
		return nil, mapErr(err)
	}

	result := make([]User, 0, len(users))
	for _, u := range users {
		result = append(result, convertUser(&u))
	}
	return result, nil
}

func (c *client) UserInfo(ctx context.Context, userID string) (*User, error) {
	user, err := c.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return nil, mapErr(err)
	}

	converted := convertUser(user)
	return &converted, nil
}

func (c *client) SearchMessages(ctx context.Context, query string, count, page int) (*SearchPage, error) {
	params := slack.NewSearchParameters()
	params.Count = count
	params.Page = page

	resp, err := c.api.SearchMessagesContext(ctx, query, params)
	if err != nil {
		return nil, mapErr(err)
	}

	result := &SearchPage{
		Matches:    make([]SearchMatch, 0, len(resp.Matches)),
		TotalCount: resp.Pagination.TotalCount,
		Page:       resp.Pagination.Page,
		PageCount:  resp.Pagination.PageCount,
	}
	for _, m := range resp.Matches {
		result.Matches = append(result.Matches, SearchMatch{
			TS:          m.Timestamp,
			ChannelID:   m.Channel.ID,
			ChannelName: m.Channel.Name,
			UserID:      m.User,
			Username:    m.Username,
			Text:        m.Text,
			Permalink:   m.Permalink,
		})
	}
	return result, nil
}

func convertMessage(msg slack.Message) Message {
	m := Message{
		TS:         msg.Timestamp,
		User:       msg.User,
		BotID:      msg.BotID,
		Text:       msg.Text,
		ThreadTS:   msg.ThreadTimestamp,
		ReplyCount: msg.ReplyCount,
	}
	for _, r := range msg.Reactions {
		m.Reactions = append(m.Reactions, Reaction{Name: r.Name, Count: r.Count})
	}
	return m
}

func convertUser(u *slack.User) User {
	return User{
		ID:          u.ID,
		Name:        u.Name,
		RealName:    u.RealName,
		DisplayName: u.Profile.DisplayName,
		Email:       u.Profile.Email,
		Title:       u.Profile.Title,
		TimeZone:    u.TZ,
		IsBot:       u.IsBot,
		IsAdmin:     u.IsAdmin,
		Deleted:     u.Deleted,
	}
}

// mapErr converts slack-go errors into API errors with a stable code.
// Slack Web API failures surface as the bare error code string.
func mapErr(err error) error {
	if err == nil {
		return nil
	}

	var rateLimited *slack.RateLimitedError
	if errors.As(err, &rateLimited) {
		apiErr := model.NewAPIError(types.APIErrRateLimited, "Slack API rate limit exceeded")
		apiErr.RetryAfter = int(rateLimited.RetryAfter / time.Second)
		return apiErr
	}

	code := err.Error()
	switch {
	case hasErrCode(code, "invalid_auth", "not_authed", "account_inactive", "token_revoked", "token_expired"):
		return model.NewAPIError(types.APIErrInvalidAuth, fmt.Sprintf("Slack authentication failed: %s", code))
	case hasErrCode(code, "missing_scope", "not_allowed_token_type", "ekm_access_denied"):
		return model.NewAPIError(types.APIErrMissingScope, fmt.Sprintf("missing required scope: %s", code))
	case hasErrCode(code, "channel_not_found"):
		return model.NewAPIError(types.APIErrChannelNotFound, "channel not found")
	case hasErrCode(code, "user_not_found"):
		return model.NewAPIError(types.APIErrUserNotFound, "user not found")
	case hasErrCode(code, "not_in_channel"):
		return model.NewAPIError(types.APIErrNotInChannel, "not a member of the channel")
	case hasErrCode(code, "thread_not_found"):
		return model.NewAPIError(types.APIErrThreadNotFound, "thread not found")
	case hasErrCode(code, "internal_error", "fatal_error"):
		return model.NewAPIError(types.APIErrInternal, "Slack internal error")
	default:
		return model.NewAPIError(types.APIErrUnknown, err.Error())
	}
}

func hasErrCode(errStr string, codes ...string) bool {
	for _, code := range codes {
		if errStr == code || strings.Contains(errStr, code) {
			return true
		}
	}
	return false
}
