package usecase_test

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/m-mizutani/goerr/v2"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/types"
	"github.com/toolbridge/slack-mcp-server/pkg/service/slackapi"
	"github.com/toolbridge/slack-mcp-server/pkg/usecase"
)

// fixedNow anchors relative timestamps in tests
var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

// tsAgo builds a Slack ts string exactly the given duration before fixedNow
func tsAgo(d time.Duration) string {
	return strconv.FormatInt(fixedNow.Add(-d).Unix(), 10) + ".000000"
}

type listChannelsCall struct {
	limit  int
	cursor string
}

type historyCall struct {
	channelID string
	limit     int
	oldest    string
	latest    string
}

type repliesCall struct {
	channelID string
	threadTS  string
	limit     int
}

type searchCall struct {
	query string
	count int
	page  int
}

// mockService is a scripted slackapi.Service
type mockService struct {
	mu sync.Mutex

	authInfo *slackapi.AuthInfo
	channels []slackapi.Channel
	cursor   string
	history  *slackapi.HistoryPage
	replies  *slackapi.HistoryPage
	users    []slackapi.User
	search   *slackapi.SearchPage

	listChannelsErr error
	historyErr      error
	repliesErr      error
	listUsersErr    error
	userInfoErr     error
	searchErr       error

	listChannelsCalls []listChannelsCall
	historyCalls      []historyCall
	repliesCalls      []repliesCall
	listUsersCalls    int
	searchCalls       []searchCall
}

func (m *mockService) AuthTest(ctx context.Context) (*slackapi.AuthInfo, error) {
	if m.authInfo != nil {
		return m.authInfo, nil
	}
	return &slackapi.AuthInfo{UserID: "U0001"}, nil
}

func (m *mockService) ListChannels(ctx context.Context, limit int, cursor string) (*slackapi.ChannelPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listChannelsCalls = append(m.listChannelsCalls, listChannelsCall{limit: limit, cursor: cursor})
	if m.listChannelsErr != nil {
		return nil, m.listChannelsErr
	}
	return &slackapi.ChannelPage{Channels: m.channels, NextCursor: m.cursor}, nil
}

func (m *mockService) ChannelHistory(ctx context.Context, channelID string, limit int, oldest, latest string) (*slackapi.HistoryPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.historyCalls = append(m.historyCalls, historyCall{channelID: channelID, limit: limit, oldest: oldest, latest: latest})
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	if m.history != nil {
		return m.history, nil
	}
	return &slackapi.HistoryPage{}, nil
}

func (m *mockService) ThreadReplies(ctx context.Context, channelID, threadTS string, limit int) (*slackapi.HistoryPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.repliesCalls = append(m.repliesCalls, repliesCall{channelID: channelID, threadTS: threadTS, limit: limit})
	if m.repliesErr != nil {
		return nil, m.repliesErr
	}
	if m.replies != nil {
		return m.replies, nil
	}
	return &slackapi.HistoryPage{}, nil
}

func (m *mockService) ListUsers(ctx context.Context) ([]slackapi.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listUsersCalls++
	if m.listUsersErr != nil {
		return nil, m.listUsersErr
	}
	return m.users, nil
}

func (m *mockService) UserInfo(ctx context.Context, userID string) (*slackapi.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.userInfoErr != nil {
		return nil, m.userInfoErr
	}
	for _, u := range m.users {
		if u.ID == userID {
			return &u, nil
		}
	}
	return nil, model.NewAPIError(types.APIErrUserNotFound, "user not found")
}

func (m *mockService) SearchMessages(ctx context.Context, query string, count, page int) (*slackapi.SearchPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchCalls = append(m.searchCalls, searchCall{query: query, count: count, page: page})
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if m.search != nil {
		return m.search, nil
	}
	return &slackapi.SearchPage{}, nil
}

func (m *mockService) channelCalls() []listChannelsCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]listChannelsCall(nil), m.listChannelsCalls...)
}

func (m *mockService) historyCallLog() []historyCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]historyCall(nil), m.historyCalls...)
}

func (m *mockService) repliesCallLog() []repliesCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]repliesCall(nil), m.repliesCalls...)
}

func (m *mockService) searchCallLog() []searchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]searchCall(nil), m.searchCalls...)
}

// fakeDriver is a scripted refresh driver
type fakeDriver struct {
	mu    sync.Mutex
	creds *model.StoredCredentials
	err   error
	calls int
}

func (d *fakeDriver) TriggerManual(ctx context.Context) (*model.StoredCredentials, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return d.creds, nil
}

func (d *fakeDriver) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// fakeErrLog records appended diagnostics and answers reads from them
type fakeErrLog struct {
	mu            sync.Mutex
	records       []model.ErrorRecord
	readErr       error
	clearErr      error
	lastReadLimit int
	lastCutoff    *time.Time
	clearedAll    bool
}

func (l *fakeErrLog) Append(rec model.ErrorRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
}

func (l *fakeErrLog) ReadRecent(limit int) ([]model.ErrorRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastReadLimit = limit
	if l.readErr != nil {
		return nil, l.readErr
	}
	out := make([]model.ErrorRecord, 0, limit)
	for i := len(l.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, l.records[i])
	}
	return out, nil
}

func (l *fakeErrLog) Clear(before *time.Time) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastCutoff = before
	l.clearedAll = before == nil
	if l.clearErr != nil {
		return 0, l.clearErr
	}
	removed := len(l.records)
	l.records = nil
	return removed, nil
}

func (l *fakeErrLog) appended() []model.ErrorRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.ErrorRecord(nil), l.records...)
}

// fakeMemory is a scripted memory store
type fakeMemory struct {
	mu       sync.Mutex
	notes    map[string]string
	writeErr error
	readErr  error
}

func (f *fakeMemory) List() ([]model.MemoryInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	infos := make([]model.MemoryInfo, 0, len(f.notes))
	for name, content := range f.notes {
		infos = append(infos, model.MemoryInfo{Name: name, Size: int64(len(content)), ModifiedAt: fixedNow})
	}
	return infos, nil
}

func (f *fakeMemory) Read(name string) (*model.MemoryFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	content, ok := f.notes[name]
	if !ok {
		return nil, goerr.New("no such memory")
	}
	return &model.MemoryFile{Name: name, Content: content}, nil
}

func (f *fakeMemory) Write(name, content string) (*model.MemoryInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	if f.notes == nil {
		f.notes = map[string]string{}
	}
	f.notes[name] = content
	return &model.MemoryInfo{Name: name, Size: int64(len(content)), ModifiedAt: fixedNow}, nil
}

func (f *fakeMemory) Search(query string, limit int) ([]model.MemoryMatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matches []model.MemoryMatch
	for name := range f.notes {
		matches = append(matches, model.MemoryMatch{Name: name, Excerpts: []string{query}})
		if len(matches) >= limit {
			break
		}
	}
	return matches, nil
}

// newUseCases builds a UseCases over a scripted service with a fixed clock
func newUseCases(auth model.AuthConfig, svc slackapi.Service, opts ...usecase.Option) *usecase.UseCases {
	holder := slackapi.NewHolder(auth, slackapi.WithFactory(func(model.AuthConfig) (slackapi.Service, error) {
		return svc, nil
	}))
	base := []usecase.Option{usecase.WithClock(clockwork.NewFakeClockAt(fixedNow))}
	return usecase.New(holder, append(base, opts...)...)
}
