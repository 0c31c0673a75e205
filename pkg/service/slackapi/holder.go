package slackapi

import (
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
)

// Factory builds a Service for the given credentials
type Factory func(auth model.AuthConfig) (Service, error)

// Holder owns the process-wide Slack client bound to the active
// credentials. The client is built lazily on first use and swapped in
// place when a refresh lands, so in-flight callers keep the instance
// they already hold.
type Holder struct {
	mu      sync.RWMutex
	auth    model.AuthConfig
	svc     Service
	factory Factory
}

// HolderOption is a functional option for Holder configuration
type HolderOption func(*Holder)

// WithFactory replaces the client constructor (for tests)
func WithFactory(f Factory) HolderOption {
	return func(h *Holder) {
		h.factory = f
	}
}

// NewHolder creates a Holder for the given credentials. The client is
// not built until Get is called.
func NewHolder(auth model.AuthConfig, opts ...HolderOption) *Holder {
	h := &Holder{
		auth: auth,
		factory: func(a model.AuthConfig) (Service, error) {
			return New(a)
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Auth returns the currently bound credentials
func (h *Holder) Auth() model.AuthConfig {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.auth
}

// Get returns the active Slack client, constructing it on first use
func (h *Holder) Get() (Service, error) {
	h.mu.RLock()
	svc := h.svc
	h.mu.RUnlock()
	if svc != nil {
		return svc, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.svc != nil {
		return h.svc, nil
	}
	if h.auth.IsZero() {
		return nil, goerr.New("no Slack credentials resolved")
	}

	svc, err := h.factory(h.auth)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build Slack client")
	}
	h.svc = svc
	return svc, nil
}

// UpdateCredentials rebinds the holder to refreshed user credentials.
// The replacement client is built before the swap so a construction
// failure leaves the current binding untouched.
func (h *Holder) UpdateCredentials(token, cookie string) error {
	auth := model.NewUserAuth(token, cookie)

	svc, err := h.factory(auth)
	if err != nil {
		return goerr.Wrap(err, "failed to rebind Slack client")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.auth = auth
	h.svc = svc
	return nil
}

// Reset drops the built client so the next Get constructs a fresh one
func (h *Holder) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.svc = nil
}
