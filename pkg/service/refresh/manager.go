package refresh

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fatih/color"
	"github.com/jonboulle/clockwork"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/interfaces"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/types"
	"github.com/toolbridge/slack-mcp-server/pkg/service/slackapi"
	"github.com/toolbridge/slack-mcp-server/pkg/utils/logging"
)

const (
	// maxAttempts bounds one retry run: the first attempt plus two retries
	maxAttempts = 3

	// DefaultIntervalDays is how old credentials may grow before a
	// scheduled refresh is due
	DefaultIntervalDays = 7

	defaultScrapeTimeout = 30 * time.Second
)

// Manager refreshes the user-mode session credentials: scrape the
// workspace page, validate the recovered token, persist, rebind the
// client. At most one refresh runs at a time; a second caller is
// rejected immediately rather than queued. Terminal failures leave the
// persisted credentials and the bound client untouched.
type Manager struct {
	store        interfaces.CredentialStore
	holder       *slackapi.Holder
	errlog       interfaces.ErrorLogger
	clock        clockwork.Clock
	httpClient   *http.Client
	baseURL      func(workspace string) string
	buildClient  slackapi.Factory
	newBackOff   func() backoff.BackOff
	intervalDays int

	inProgress atomic.Bool

	mu                  sync.Mutex
	lastAttempt         *time.Time
	lastSuccess         *time.Time
	lastError           *model.RefreshError
	consecutiveFailures int
	isManualTrigger     bool

	revokedGuidance sync.Once
}

// Option is a functional option for Manager configuration
type Option func(*Manager)

// WithClock replaces the wall clock (for tests)
func WithClock(clock clockwork.Clock) Option {
	return func(m *Manager) {
		m.clock = clock
	}
}

// WithHTTPClient replaces the scrape HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(m *Manager) {
		m.httpClient = hc
	}
}

// WithBaseURL replaces how the workspace URL is derived (for tests)
func WithBaseURL(f func(workspace string) string) Option {
	return func(m *Manager) {
		m.baseURL = f
	}
}

// WithErrorLog wires the diagnostic log
func WithErrorLog(errlog interfaces.ErrorLogger) Option {
	return func(m *Manager) {
		m.errlog = errlog
	}
}

// WithClientFactory replaces how validation clients are built (for tests)
func WithClientFactory(f slackapi.Factory) Option {
	return func(m *Manager) {
		m.buildClient = f
	}
}

// WithIntervalDays sets the scheduled refresh interval
func WithIntervalDays(days int) Option {
	return func(m *Manager) {
		if days > 0 {
			m.intervalDays = days
		}
	}
}

// withBackOffFactory replaces the retry policy (for tests)
func withBackOffFactory(f func() backoff.BackOff) Option {
	return func(m *Manager) {
		m.newBackOff = f
	}
}

// New creates a refresh Manager for the given store and client holder
func New(store interfaces.CredentialStore, holder *slackapi.Holder, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		holder: holder,
		clock:  clockwork.NewRealClock(),
		baseURL: func(workspace string) string {
			return fmt.Sprintf("https://%s.slack.com", workspace)
		},
		buildClient: func(auth model.AuthConfig) (slackapi.Service, error) {
			return slackapi.New(auth)
		},
		intervalDays: DefaultIntervalDays,
	}
	m.newBackOff = m.defaultBackOff

	for _, opt := range opts {
		opt(m)
	}

	if m.httpClient == nil {
		m.httpClient = &http.Client{Timeout: defaultScrapeTimeout}
	}
	return m
}

// defaultBackOff builds the retry policy: 1s base delay doubling to a 30s
// cap with 25% jitter
func (m *Manager) defaultBackOff() backoff.BackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	policy.RandomizationFactor = 0.25
	policy.Multiplier = 2
	policy.MaxInterval = 30 * time.Second
	policy.MaxElapsedTime = 0
	return policy
}

// InProgress reports whether a refresh currently holds the guard
func (m *Manager) InProgress() bool {
	return m.inProgress.Load()
}

// State returns a snapshot of the refresh lifecycle
func (m *Manager) State() model.RefreshState {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := model.RefreshState{
		Status:              types.RefreshStatusIdle,
		ConsecutiveFailures: m.consecutiveFailures,
		IsManualTrigger:     m.isManualTrigger,
	}
	if m.inProgress.Load() {
		state.Status = types.RefreshStatusInProgress
	}
	if m.lastAttempt != nil {
		t := *m.lastAttempt
		state.LastAttempt = &t
	}
	if m.lastSuccess != nil {
		t := *m.lastSuccess
		state.LastSuccess = &t
	}
	if m.lastError != nil {
		e := *m.lastError
		state.LastError = &e
	}
	return state
}

// IsRefreshDue reports whether the persisted credentials are old enough
// for a scheduled refresh. Missing or unreadable credentials are never
// due; the scheduler just skips the tick.
func (m *Manager) IsRefreshDue() bool {
	if !m.store.Exists() {
		return false
	}
	creds, err := m.store.Load()
	if err != nil {
		return false
	}

	due := creds.Metadata.LastRefreshed.Add(time.Duration(m.intervalDays) * 24 * time.Hour)
	return !m.clock.Now().Before(due)
}

// Refresh runs a single refresh attempt. A concurrent caller is
// rejected with REFRESH_IN_PROGRESS.
func (m *Manager) Refresh(ctx context.Context, isManual bool) (*model.StoredCredentials, error) {
	if !m.begin(isManual) {
		return nil, m.rejectInProgress(isManual)
	}

	creds, err := m.attempt(ctx, isManual, 1)
	m.finish(ctx, isManual, creds, err, 1)
	if err != nil {
		return nil, err
	}
	return creds, nil
}

// RefreshWithRetry runs a refresh with exponential backoff. The guard
// is held for the whole run, so concurrent triggers fail fast instead
// of piling onto the retry loop. Terminal failures short-circuit; a run
// that exhausts its attempts surfaces the last error.
func (m *Manager) RefreshWithRetry(ctx context.Context, isManual bool) (*model.StoredCredentials, error) {
	if !m.begin(isManual) {
		return nil, m.rejectInProgress(isManual)
	}

	var creds *model.StoredCredentials
	attempt := 0
	operation := func() error {
		attempt++
		result, err := m.attempt(ctx, isManual, attempt)
		if err != nil {
			refreshErr := model.AsRefreshError(err)
			logging.From(ctx).Warn("refresh attempt failed",
				"attempt", attempt,
				"code", refreshErr.Code,
				"retryable", refreshErr.Retryable,
				"error", refreshErr.Message)
			if !refreshErr.Retryable {
				return backoff.Permanent(refreshErr)
			}
			return refreshErr
		}
		creds = result
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(m.newBackOff(), maxAttempts-1), ctx)
	err := backoff.Retry(operation, policy)
	m.finish(ctx, isManual, creds, err, attempt)
	if err != nil {
		return nil, err
	}
	return creds, nil
}

// attempt performs one full refresh pass: load, scrape, validate,
// persist, rebind. Every failure comes back as a classified
// RefreshError.
func (m *Manager) attempt(ctx context.Context, isManual bool, attempt int) (*model.StoredCredentials, error) {
	current, err := m.store.Load()
	if err != nil {
		// Unreadable credentials will not heal between attempts, so the
		// usual retryable classification of STORAGE_ERROR does not apply
		refreshErr := model.NewRefreshError(types.RefreshErrStorage, fmt.Sprintf("failed to load credentials: %v", err))
		refreshErr.Retryable = false
		return nil, refreshErr
	}

	scraped, err := m.scrapeWorkspace(ctx, current.Credentials.Workspace, current.Credentials.Cookie)
	if err != nil {
		return nil, err
	}

	// Slack's sliding session does not always rotate the cookie
	cookie := scraped.cookie
	if cookie == "" {
		cookie = current.Credentials.Cookie
	}

	if err := m.validate(ctx, scraped.token, cookie); err != nil {
		return nil, err
	}

	source := types.RefreshSourceAuto
	if isManual {
		source = types.RefreshSourceManual
	}
	next := current.Refreshed(scraped.token, cookie, source, m.clock.Now())

	if err := m.store.Save(next); err != nil {
		return nil, model.NewRefreshError(types.RefreshErrStorage, fmt.Sprintf("failed to persist credentials: %v", err))
	}
	if err := m.holder.UpdateCredentials(scraped.token, cookie); err != nil {
		return nil, model.NewRefreshError(types.RefreshErrUnknown, fmt.Sprintf("failed to rebind client: %v", err))
	}

	logging.From(ctx).Info("credentials refreshed",
		"attempt", attempt,
		"refresh_count", next.Metadata.RefreshCount,
		"source", source)
	return next, nil
}

// validate confirms the scraped token actually authenticates before it
// replaces a working credential set
func (m *Manager) validate(ctx context.Context, token, cookie string) error {
	candidate, err := m.buildClient(model.NewUserAuth(token, cookie))
	if err != nil {
		return model.NewRefreshError(types.RefreshErrInvalid, fmt.Sprintf("failed to build validation client: %v", err))
	}

	if _, err := candidate.AuthTest(ctx); err != nil {
		apiErr := model.AsAPIError(err)
		if apiErr.Code == types.APIErrInvalidAuth {
			return model.NewRefreshError(types.RefreshErrRevoked, fmt.Sprintf("scraped token rejected: %s", apiErr.Message))
		}
		return model.NewRefreshError(types.RefreshErrInvalid, fmt.Sprintf("token validation failed: %s", apiErr.Message))
	}
	return nil
}

// begin claims the single-refresh guard and stamps the attempt
func (m *Manager) begin(isManual bool) bool {
	if !m.inProgress.CompareAndSwap(false, true) {
		return false
	}

	now := m.clock.Now()
	m.mu.Lock()
	m.lastAttempt = &now
	m.isManualTrigger = isManual
	m.mu.Unlock()
	return true
}

// finish records the run outcome and releases the guard. A rejected
// concurrent trigger never reaches here, so REFRESH_IN_PROGRESS can
// never touch the failure counter.
func (m *Manager) finish(ctx context.Context, isManual bool, creds *model.StoredCredentials, err error, attempt int) {
	now := m.clock.Now()

	m.mu.Lock()
	if err == nil {
		m.lastSuccess = &now
		m.lastError = nil
		m.consecutiveFailures = 0
	} else {
		refreshErr := model.AsRefreshError(err)
		if refreshErr.Timestamp.IsZero() {
			refreshErr.Timestamp = now
		}
		refreshErr.Attempt = attempt
		m.lastError = refreshErr
		m.consecutiveFailures++
	}
	m.isManualTrigger = false
	failures := m.consecutiveFailures
	m.mu.Unlock()

	m.inProgress.Store(false)

	if err == nil {
		return
	}

	refreshErr := model.AsRefreshError(err)
	m.logFailure(refreshErr, isManual, failures)
	logging.From(ctx).Error("credential refresh failed",
		"code", refreshErr.Code,
		"attempt", refreshErr.Attempt,
		"retryable", refreshErr.Retryable,
		"consecutive_failures", failures,
		"error", refreshErr.Message)

	if refreshErr.Code == types.RefreshErrRevoked {
		m.printRevokedGuidance()
	}
}

// rejectInProgress builds the concurrent-trigger rejection and logs it
func (m *Manager) rejectInProgress(isManual bool) error {
	refreshErr := model.NewRefreshError(types.RefreshErrInProgress, "another refresh is already in progress")
	refreshErr.Timestamp = m.clock.Now()

	if m.errlog != nil {
		m.errlog.Append(model.ErrorRecord{
			Level:     model.ErrorLevelWarn,
			Component: "refresh",
			Code:      refreshErr.Code.String(),
			Message:   refreshErr.Message,
			Context:   map[string]any{"isManual": isManual},
			Retryable: true,
		})
	}
	return refreshErr
}

func (m *Manager) logFailure(refreshErr *model.RefreshError, isManual bool, failures int) {
	if m.errlog == nil {
		return
	}
	m.errlog.Append(model.ErrorRecord{
		Level:     model.ErrorLevelError,
		Component: "refresh",
		Code:      refreshErr.Code.String(),
		Message:   refreshErr.Message,
		Context: map[string]any{
			"isManual":            isManual,
			"consecutiveFailures": failures,
		},
		Attempt:   refreshErr.Attempt,
		Retryable: refreshErr.Retryable,
	})
}

// printRevokedGuidance tells the operator how to recover from a dead
// session. Shown once per process; stderr because stdout carries
// protocol frames.
func (m *Manager) printRevokedGuidance() {
	m.revokedGuidance.Do(func() {
		header := color.New(color.FgRed, color.Bold)
		_, _ = header.Fprintln(color.Error, "Slack session revoked: automatic refresh cannot recover it.")
		_, _ = fmt.Fprintln(color.Error, "Sign in to your workspace in a browser and update the credentials:")
		_, _ = fmt.Fprintln(color.Error, "  1. Open https://<workspace>.slack.com and sign in")
		_, _ = fmt.Fprintln(color.Error, "  2. Copy the xoxc token and xoxd cookie from the browser session")
		_, _ = fmt.Fprintln(color.Error, "  3. Set SLACK_USER_TOKEN and SLACK_COOKIE_D, then restart or run the refresh tool")
	})
}
