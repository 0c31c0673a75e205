package refresh_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
	"github.com/toolbridge/slack-mcp-server/pkg/service/slackapi"
)

var errNotFound = errors.New("credentials not found")

// memStore is an in-memory CredentialStore for manager tests
type memStore struct {
	mu      sync.Mutex
	creds   *model.StoredCredentials
	loadErr error
	saveErr error
	saved   []*model.StoredCredentials
}

func (s *memStore) Exists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds != nil
}

func (s *memStore) Load() (*model.StoredCredentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.creds == nil {
		return nil, errNotFound
	}
	copied := *s.creds
	return &copied, nil
}

func (s *memStore) Save(creds *model.StoredCredentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	copied := *creds
	s.creds = &copied
	s.saved = append(s.saved, &copied)
	return nil
}

func (s *memStore) CreateInitial(token, cookie, workspace string) (*model.StoredCredentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = model.NewInitialCredentials(token, cookie, workspace, time.Now())
	return s.creds, nil
}

func (s *memStore) Path() string {
	return "/tmp/test-credentials.json"
}

func (s *memStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func (s *memStore) current() *model.StoredCredentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return nil
	}
	copied := *s.creds
	return &copied
}

// memLog is an in-memory ErrorLogger collecting appended records
type memLog struct {
	mu      sync.Mutex
	records []model.ErrorRecord
}

func (l *memLog) Append(rec model.ErrorRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
}

func (l *memLog) ReadRecent(limit int) ([]model.ErrorRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]model.ErrorRecord, 0, len(l.records))
	for i := len(l.records) - 1; i >= 0; i-- {
		out = append(out, l.records[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (l *memLog) Clear(before *time.Time) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.records)
	l.records = nil
	return n, nil
}

func (l *memLog) byCode(code string) []model.ErrorRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []model.ErrorRecord
	for _, rec := range l.records {
		if rec.Code == code {
			out = append(out, rec)
		}
	}
	return out
}

// stubService is a minimal slackapi.Service whose AuthTest outcome is
// scripted; the read methods are never called by the refresh engine
type stubService struct {
	authErr error
}

func (s *stubService) AuthTest(ctx context.Context) (*slackapi.AuthInfo, error) {
	if s.authErr != nil {
		return nil, s.authErr
	}
	return &slackapi.AuthInfo{UserID: "U0001", Team: "testws"}, nil
}

func (s *stubService) ListChannels(ctx context.Context, limit int, cursor string) (*slackapi.ChannelPage, error) {
	return &slackapi.ChannelPage{}, nil
}

func (s *stubService) ChannelHistory(ctx context.Context, channelID string, limit int, oldest, latest string) (*slackapi.HistoryPage, error) {
	return &slackapi.HistoryPage{}, nil
}

func (s *stubService) ThreadReplies(ctx context.Context, channelID, threadTS string, limit int) (*slackapi.HistoryPage, error) {
	return &slackapi.HistoryPage{}, nil
}

func (s *stubService) ListUsers(ctx context.Context) ([]slackapi.User, error) {
	return nil, nil
}

func (s *stubService) UserInfo(ctx context.Context, userID string) (*slackapi.User, error) {
	return nil, nil
}

func (s *stubService) SearchMessages(ctx context.Context, query string, count, page int) (*slackapi.SearchPage, error) {
	return &slackapi.SearchPage{}, nil
}
