package interfaces

import (
	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
)

// CredentialStore persists the user-mode credential set as an owner-only
// JSON file. Implementations validate on both load and save, and write
// atomically so readers never observe a partial file.
type CredentialStore interface {
	// Exists reports whether a persisted credential file is present
	Exists() bool

	// Load reads and validates the persisted credentials
	Load() (*model.StoredCredentials, error)

	// Save validates and atomically persists the credentials
	Save(creds *model.StoredCredentials) error

	// CreateInitial seeds the store from environment-provided values and
	// returns the persisted record (source = initial)
	CreateInitial(token, cookie, workspace string) (*model.StoredCredentials, error)

	// Path returns the backing file path
	Path() string
}
