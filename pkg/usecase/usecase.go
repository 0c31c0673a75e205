package usecase

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/interfaces"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/types"
	"github.com/toolbridge/slack-mcp-server/pkg/service/slackapi"
)

// Default limits applied when a tool call omits the optional ones
const (
	defaultChannelLimit  = 100
	defaultHistoryLimit  = 50
	defaultUserLimit     = 100
	defaultSearchCount   = 20
	defaultMemoryLimit   = 20
	defaultErrorLogLimit = 50
	maxErrorLogLimit     = 500
)

// UseCases implements the tool pipeline: reference resolution through the
// name caches, Slack invocation through the holder-resolved client, and
// response shaping through the format pipeline.
type UseCases struct {
	holder   *slackapi.Holder
	channels *slackapi.ChannelCache
	users    *slackapi.UserCache

	errlog interfaces.ErrorLogger
	driver interfaces.RefreshDriver
	memory interfaces.MemoryStore
	clock  clockwork.Clock

	workspace      string
	refreshEnabled bool
}

type Option func(*UseCases)

// WithErrorLog wires the diagnostic log that tool failures are recorded to
func WithErrorLog(errlog interfaces.ErrorLogger) Option {
	return func(uc *UseCases) {
		uc.errlog = errlog
	}
}

// WithRefreshDriver wires the manual refresh path used by the refresh tool
func WithRefreshDriver(driver interfaces.RefreshDriver) Option {
	return func(uc *UseCases) {
		uc.driver = driver
	}
}

// WithMemory wires the Markdown memory store
func WithMemory(memory interfaces.MemoryStore) Option {
	return func(uc *UseCases) {
		uc.memory = memory
	}
}

// WithClock replaces the wall clock used for relative timestamps
func WithClock(clock clockwork.Clock) Option {
	return func(uc *UseCases) {
		uc.clock = clock
	}
}

// WithWorkspace records the workspace subdomain refreshes scrape
func WithWorkspace(workspace string) Option {
	return func(uc *UseCases) {
		uc.workspace = workspace
	}
}

// WithRefreshEnabled records whether credential refresh is enabled
func WithRefreshEnabled(enabled bool) Option {
	return func(uc *UseCases) {
		uc.refreshEnabled = enabled
	}
}

func New(holder *slackapi.Holder, opts ...Option) *UseCases {
	uc := &UseCases{
		holder: holder,
		clock:  clockwork.NewRealClock(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.channels = slackapi.NewChannelCache(holder)
	uc.users = slackapi.NewUserCache(holder)

	return uc
}

// IsSearchAvailable reports whether search_messages can run: the search API
// only accepts user tokens.
func (uc *UseCases) IsSearchAvailable() bool {
	return uc.holder.Auth().Mode() == types.AuthModeUser
}

// IsRefreshAvailable reports whether refresh_credentials can run: user auth
// with a known workspace and refresh not disabled.
func (uc *UseCases) IsRefreshAvailable() bool {
	return uc.holder.Auth().Mode() == types.AuthModeUser &&
		uc.workspace != "" &&
		uc.refreshEnabled &&
		uc.driver != nil
}

// HasMemory reports whether the memory tools have a backing store
func (uc *UseCases) HasMemory() bool {
	return uc.memory != nil
}

// WarmCaches populates both name caches ahead of the first tool call.
// Population failures are swallowed inside the caches.
func (uc *UseCases) WarmCaches(ctx context.Context) {
	uc.channels.Warm(ctx)
	uc.users.Warm(ctx)
}
