package worker

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/interfaces"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
	"github.com/toolbridge/slack-mcp-server/pkg/service/refresh"
	"github.com/toolbridge/slack-mcp-server/pkg/utils/errutil"
	"github.com/toolbridge/slack-mcp-server/pkg/utils/logging"
)

// DefaultCheckInterval is how often the scheduler looks at credential age
const DefaultCheckInterval = time.Hour

// RefreshScheduler periodically checks whether the persisted user
// credentials are due and delegates to the refresh manager. One
// instance runs per process.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - The manager's own guard serializes scheduled and manual refreshes
type RefreshScheduler struct {
	manager       *refresh.Manager
	clock         clockwork.Clock
	checkInterval time.Duration
	enabled       bool

	mu          sync.Mutex
	running     bool
	nextCheckAt time.Time
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// SchedulerOption is a functional option for RefreshScheduler configuration
type SchedulerOption func(*RefreshScheduler)

// WithCheckInterval sets how often the scheduler wakes up
func WithCheckInterval(d time.Duration) SchedulerOption {
	return func(s *RefreshScheduler) {
		if d > 0 {
			s.checkInterval = d
		}
	}
}

// WithClock replaces the wall clock (for tests)
func WithClock(clock clockwork.Clock) SchedulerOption {
	return func(s *RefreshScheduler) {
		s.clock = clock
	}
}

// WithEnabled gates the periodic loop. Manual triggers work regardless.
func WithEnabled(enabled bool) SchedulerOption {
	return func(s *RefreshScheduler) {
		s.enabled = enabled
	}
}

// NewRefreshScheduler creates a scheduler driving the given manager
func NewRefreshScheduler(manager *refresh.Manager, opts ...SchedulerOption) *RefreshScheduler {
	s := &RefreshScheduler{
		manager:       manager,
		clock:         clockwork.NewRealClock(),
		checkInterval: DefaultCheckInterval,
		enabled:       true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ interfaces.RefreshDriver = &RefreshScheduler{}

// Start begins the periodic check loop in a background goroutine. It
// no-ops when the scheduler is disabled or already running.
func (s *RefreshScheduler) Start(ctx context.Context) error {
	if !s.enabled {
		logging.Default().Info("credential refresh scheduler disabled")
		return nil
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.nextCheckAt = s.clock.Now().Add(s.checkInterval)
	next := s.nextCheckAt
	s.mu.Unlock()

	logging.Default().Info("credential refresh scheduler starting",
		"check_interval", s.checkInterval.String(),
		"next_check_at", next)

	go s.run(ctx)
	return nil
}

// Stop signals the loop to exit and waits for it. No-op when the
// scheduler never started.
func (s *RefreshScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stopCh := s.stopCh
	doneCh := s.doneCh
	s.mu.Unlock()

	close(stopCh)
	<-doneCh
	logging.Default().Info("credential refresh scheduler stopped")
}

// TriggerManual runs a refresh now, regardless of the schedule and of
// whether the periodic loop is enabled
func (s *RefreshScheduler) TriggerManual(ctx context.Context) (*model.StoredCredentials, error) {
	return s.manager.RefreshWithRetry(ctx, true)
}

// NextCheckAt returns when the next scheduled check fires
func (s *RefreshScheduler) NextCheckAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextCheckAt
}

// run is the main scheduler loop (runs in goroutine)
func (s *RefreshScheduler) run(ctx context.Context) {
	defer close(s.doneCh)

	// One check right away so stale credentials recover without waiting
	// out the first interval
	s.check(ctx)

	ticker := s.clock.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			s.mu.Lock()
			s.nextCheckAt = s.clock.Now().Add(s.checkInterval)
			s.mu.Unlock()
			s.check(ctx)

		case <-s.stopCh:
			logging.Default().Info("credential refresh scheduler received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("credential refresh scheduler context cancelled")
			return
		}
	}
}

// check runs one scheduled pass: skip while a refresh is in flight,
// skip when nothing is due, otherwise refresh with retries
func (s *RefreshScheduler) check(ctx context.Context) {
	if s.manager.InProgress() {
		logging.From(ctx).Debug("refresh in progress, skipping scheduled check")
		return
	}
	if !s.manager.IsRefreshDue() {
		return
	}

	if _, err := s.manager.RefreshWithRetry(ctx, false); err != nil {
		// Keep the loop alive; the failure is already classified and
		// recorded by the manager
		errutil.Handle(ctx, err, "scheduled credential refresh failed (will retry next interval)")
	}
}
