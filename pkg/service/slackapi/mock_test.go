package slackapi_test

import (
	"context"
	"strconv"
	"sync"

	"github.com/toolbridge/slack-mcp-server/pkg/service/slackapi"
)

// mockService is a hand-written Service implementation for cache and
// holder tests
type mockService struct {
	mu       sync.Mutex
	channels []slackapi.Channel
	users    []slackapi.User
	pageSize int // when >0, ListChannels serves pages of this size

	listChannelsErr error
	listUsersErr    error

	listChannelsCalled int
	listUsersCalled    int
}

func (m *mockService) channelCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listChannelsCalled
}

func (m *mockService) userCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listUsersCalled
}

func (m *mockService) AuthTest(ctx context.Context) (*slackapi.AuthInfo, error) {
	return &slackapi.AuthInfo{UserID: "U0000", Team: "testing"}, nil
}

func (m *mockService) ListChannels(ctx context.Context, limit int, cursor string) (*slackapi.ChannelPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listChannelsCalled++
	if m.listChannelsErr != nil {
		return nil, m.listChannelsErr
	}

	if m.pageSize <= 0 {
		return &slackapi.ChannelPage{Channels: m.channels}, nil
	}

	offset := 0
	if cursor != "" {
		offset, _ = strconv.Atoi(cursor)
	}
	end := offset + m.pageSize
	if end > len(m.channels) {
		end = len(m.channels)
	}
	page := &slackapi.ChannelPage{Channels: m.channels[offset:end]}
	if end < len(m.channels) {
		page.NextCursor = strconv.Itoa(end)
	}
	return page, nil
}

func (m *mockService) ChannelHistory(ctx context.Context, channelID string, limit int, oldest, latest string) (*slackapi.HistoryPage, error) {
	return &slackapi.HistoryPage{}, nil
}

func (m *mockService) ThreadReplies(ctx context.Context, channelID, threadTS string, limit int) (*slackapi.HistoryPage, error) {
	return &slackapi.HistoryPage{}, nil
}

func (m *mockService) ListUsers(ctx context.Context) ([]slackapi.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listUsersCalled++
	if m.listUsersErr != nil {
		return nil, m.listUsersErr
	}
	return append([]slackapi.User(nil), m.users...), nil
}

func (m *mockService) UserInfo(ctx context.Context, userID string) (*slackapi.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.ID == userID {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

func (m *mockService) SearchMessages(ctx context.Context, query string, count, page int) (*slackapi.SearchPage, error) {
	return &slackapi.SearchPage{}, nil
}
