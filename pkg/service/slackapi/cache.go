package slackapi

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/toolbridge/slack-mcp-server/pkg/utils/logging"
	"golang.org/x/sync/singleflight"
)

// populatePageSize is the conversations.list page size used when
// filling the channel cache.
const populatePageSize = 1000

// channelIDRe matches raw channel, DM, and group IDs
var channelIDRe = regexp.MustCompile(`^[CDG][A-Z0-9]+$`)

type cachedChannel struct {
	ID   string
	Name string
}

// ChannelCache resolves channel names to IDs. It is populated once per
// process from conversations.list; concurrent resolves share a single
// in-flight populate. Population is best-effort: on failure the cache
// stays empty and inputs fall through verbatim.
type ChannelCache struct {
	holder *Holder
	group  singleflight.Group

	mu        sync.RWMutex
	entries   map[string]cachedChannel // keyed by ID and lowercased name
	populated bool
}

// NewChannelCache creates a ChannelCache backed by the holder's client
func NewChannelCache(holder *Holder) *ChannelCache {
	return &ChannelCache{holder: holder}
}

// ResolveChannelID maps a channel reference to its ID. Raw IDs pass
// through without touching the cache. Names are matched after stripping
// a leading "#" and lowercasing; unknown names return the input
// unchanged so private channels and DMs still reach the API.
func (c *ChannelCache) ResolveChannelID(ctx context.Context, input string) string {
	if channelIDRe.MatchString(input) {
		return input
	}

	name := strings.ToLower(strings.TrimPrefix(input, "#"))
	c.ensurePopulated(ctx)

	c.mu.RLock()
	defer c.mu.RUnlock()
	if ch, ok := c.entries[name]; ok {
		return ch.ID
	}
	return input
}

// Warm populates the cache ahead of the first resolve
func (c *ChannelCache) Warm(ctx context.Context) {
	c.ensurePopulated(ctx)
}

// Reset clears the cache so the next resolve repopulates
func (c *ChannelCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.populated = false
}

func (c *ChannelCache) ensurePopulated(ctx context.Context) {
	c.mu.RLock()
	ready := c.populated
	c.mu.RUnlock()
	if ready {
		return
	}

	_, _, _ = c.group.Do("populate", func() (any, error) {
		c.mu.RLock()
		ready := c.populated
		c.mu.RUnlock()
		if ready {
			return nil, nil
		}

		entries, err := c.fetch(ctx)
		if err != nil {
			logging.From(ctx).Warn("failed to populate channel cache", "error", err)
			entries = map[string]cachedChannel{}
		}

		c.mu.Lock()
		c.entries = entries
		c.populated = true
		c.mu.Unlock()
		return nil, nil
	})
}

func (c *ChannelCache) fetch(ctx context.Context) (map[string]cachedChannel, error) {
	svc, err := c.holder.Get()
	if err != nil {
		return nil, err
	}

	entries := make(map[string]cachedChannel)
	var cursor string
	for {
		page, err := svc.ListChannels(ctx, populatePageSize, cursor)
		if err != nil {
			return nil, err
		}
		for _, ch := range page.Channels {
			entry := cachedChannel{ID: ch.ID, Name: ch.Name}
			entries[ch.ID] = entry
			entries[strings.ToLower(ch.Name)] = entry
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}
	return entries, nil
}

// UserCache resolves user IDs to display names. Like ChannelCache it is
// populated once from users.list and deduplicates concurrent populates;
// on failure it serves raw IDs until Reset.
type UserCache struct {
	holder *Holder
	group  singleflight.Group

	mu        sync.RWMutex
	names     map[string]string
	populated bool
}

// NewUserCache creates a UserCache backed by the holder's client
func NewUserCache(holder *Holder) *UserCache {
	return &UserCache{holder: holder}
}

// DisplayName returns the display name for a user ID, or the raw ID
// when unknown
func (u *UserCache) DisplayName(ctx context.Context, id string) string {
	u.ensurePopulated(ctx)

	u.mu.RLock()
	defer u.mu.RUnlock()
	if name, ok := u.names[id]; ok {
		return name
	}
	return id
}

// Resolve returns "display (ID)" for a known user, or the raw ID
func (u *UserCache) Resolve(ctx context.Context, id string) string {
	u.ensurePopulated(ctx)

	u.mu.RLock()
	defer u.mu.RUnlock()
	if name, ok := u.names[id]; ok {
		return name + " (" + id + ")"
	}
	return id
}

// ResolveMany resolves a batch of user IDs in one pass over the populated
// cache. Duplicates collapse, empty IDs are skipped, unknown IDs map to
// themselves.
func (u *UserCache) ResolveMany(ctx context.Context, ids []string) map[string]string {
	u.ensurePopulated(ctx)

	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, done := out[id]; done {
			continue
		}
		if name, ok := u.names[id]; ok {
			out[id] = name + " (" + id + ")"
		} else {
			out[id] = id
		}
	}
	return out
}

// Warm populates the cache ahead of the first resolve
func (u *UserCache) Warm(ctx context.Context) {
	u.ensurePopulated(ctx)
}

// Reset clears the cache so the next resolve repopulates
func (u *UserCache) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.names = nil
	u.populated = false
}

func (u *UserCache) ensurePopulated(ctx context.Context) {
	u.mu.RLock()
	ready := u.populated
	u.mu.RUnlock()
	if ready {
		return
	}

	_, _, _ = u.group.Do("populate", func() (any, error) {
		u.mu.RLock()
		ready := u.populated
		u.mu.RUnlock()
		if ready {
			return nil, nil
		}

		names, err := u.fetch(ctx)
		if err != nil {
			logging.From(ctx).Warn("failed to populate user cache", "error", err)
			names = map[string]string{}
		}

		u.mu.Lock()
		u.names = names
		u.populated = true
		u.mu.Unlock()
		return nil, nil
	})
}

func (u *UserCache) fetch(ctx context.Context) (map[string]string, error) {
	svc, err := u.holder.Get()
	if err != nil {
		return nil, err
	}

	users, err := svc.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(users))
	for _, user := range users {
		names[user.ID] = user.PreferredName()
	}
	return names, nil
}
