package model

import (
	"log/slog"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/types"
)

// CredentialsVersion pins the schema of the persisted credentials file.
// Readers reject any other version.
const CredentialsVersion = 1

// StoredCredentials is the persisted user-mode credential set. It is created
// once at startup when the environment carries user credentials and no file
// exists, and afterwards mutated only by the refresh engine.
type StoredCredentials struct {
	Version     int                `json:"version"`
	Credentials CredentialData     `json:"credentials"`
	Metadata    CredentialMetadata `json:"metadata"`
}

// CredentialData holds the live token/cookie pair and the workspace
// subdomain the refresh URL is built from.
type CredentialData struct {
	Token     string `json:"token"`
	Cookie    string `json:"cookie"`
	Workspace string `json:"workspace"`
}

// CredentialMetadata tracks the refresh history of the credential set
type CredentialMetadata struct {
	LastRefreshed time.Time           `json:"lastRefreshed"`
	RefreshCount  int                 `json:"refreshCount"`
	Source        types.RefreshSource `json:"source"`
}

// NewInitialCredentials builds the first persisted record from environment
// values. The caller supplies now so the timestamp is testable.
func NewInitialCredentials(token, cookie, workspace string, now time.Time) *StoredCredentials {
	return &StoredCredentials{
		Version: CredentialsVersion,
		Credentials: CredentialData{
			Token:     token,
			Cookie:    cookie,
			Workspace: workspace,
		},
		Metadata: CredentialMetadata{
			LastRefreshed: now.UTC(),
			RefreshCount:  0,
			Source:        types.RefreshSourceInitial,
		},
	}
}

// Refreshed returns the successor record after a successful refresh,
// preserving the workspace and advancing the refresh count.
func (c *StoredCredentials) Refreshed(token, cookie string, source types.RefreshSource, now time.Time) *StoredCredentials {
	return &StoredCredentials{
		Version: CredentialsVersion,
		Credentials: CredentialData{
			Token:     token,
			Cookie:    cookie,
			Workspace: c.Credentials.Workspace,
		},
		Metadata: CredentialMetadata{
			LastRefreshed: now.UTC(),
			RefreshCount:  c.Metadata.RefreshCount + 1,
			Source:        source,
		},
	}
}

// Validate enforces the schema invariants. It runs on both load and save so
// an invalid record can neither enter nor leave the store.
func (c *StoredCredentials) Validate() error {
	if c.Version != CredentialsVersion {
		return goerr.New("unsupported credentials version", goerr.V("version", c.Version))
	}
	if !strings.HasPrefix(c.Credentials.Token, UserTokenPrefix) {
		return goerr.New("credentials token must start with " + UserTokenPrefix)
	}
	if !strings.HasPrefix(c.Credentials.Cookie, CookiePrefix) {
		return goerr.New("credentials cookie must start with " + CookiePrefix)
	}
	if c.Credentials.Workspace == "" {
		return goerr.New("credentials workspace must not be empty")
	}
	if c.Metadata.LastRefreshed.IsZero() {
		return goerr.New("credentials lastRefreshed must be set")
	}
	if c.Metadata.RefreshCount < 0 {
		return goerr.New("credentials refreshCount must not be negative",
			goerr.V("refreshCount", c.Metadata.RefreshCount))
	}
	if !c.Metadata.Source.IsValid() {
		return goerr.New("invalid credentials source", goerr.V("source", string(c.Metadata.Source)))
	}
	return nil
}

// LogValue exposes only masked credentials to the logger
func (c *StoredCredentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("token", MaskCredential(c.Credentials.Token)),
		slog.String("cookie", MaskCredential(c.Credentials.Cookie)),
		slog.String("workspace", c.Credentials.Workspace),
		slog.Time("last_refreshed", c.Metadata.LastRefreshed),
		slog.Int("refresh_count", c.Metadata.RefreshCount),
		slog.String("source", c.Metadata.Source.String()),
	)
}
