package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/m-mizutani/goerr/v2"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/interfaces"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
)

const (
	fileMode fs.FileMode = 0o600
	dirMode  fs.FileMode = 0o700
)

// Store persists StoredCredentials as an owner-only JSON file. Writes go to
// a temp file in the same directory and are renamed onto the target, so a
// reader sees either the complete old file or the complete new one.
type Store struct {
	path  string
	clock clockwork.Clock
}

var _ interfaces.CredentialStore = &Store{}

type Option func(*Store)

// WithClock replaces the wall clock (for tests)
func WithClock(clock clockwork.Clock) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// New creates a Store backed by the given file path
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:  path,
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultPath returns the conventional credentials location under the home
// directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".slack-mcp-server", "credentials.json")
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a persisted credential file is present
func (s *Store) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && info.Mode().IsRegular()
}

// Load reads and validates the persisted credentials
func (s *Store) Load() (*model.StoredCredentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrNotFound, "no persisted credentials", goerr.V(PathKey, s.path))
		}
		return nil, goerr.Wrap(err, "failed to read credentials file", goerr.V(PathKey, s.path))
	}

	var creds model.StoredCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, goerr.Wrap(err, "failed to parse credentials file", goerr.V(PathKey, s.path))
	}
	if err := creds.Validate(); err != nil {
		return nil, goerr.Wrap(err, "persisted credentials are invalid", goerr.V(PathKey, s.path))
	}

	return &creds, nil
}

// Save validates and atomically persists the credentials. The temp file is
// created with owner-only permissions before it holds any secret, and the
// final path is chmodded after rename to cover pre-existing files.
func (s *Store) Save(creds *model.StoredCredentials) error {
	if creds == nil {
		return goerr.Wrap(ErrInvalid, "credentials must not be nil")
	}
	if err := creds.Validate(); err != nil {
		return goerr.Wrap(err, "refusing to save invalid credentials")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return goerr.Wrap(err, "failed to create credentials directory", goerr.V(PathKey, dir))
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode credentials")
	}
	data = append(data, '\n')

	tmp := fmt.Sprintf("%s.tmp.%d", s.path, os.Getpid())
	if err := os.WriteFile(tmp, data, fileMode); err != nil {
		return goerr.Wrap(err, "failed to write credentials temp file", goerr.V(PathKey, tmp))
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return goerr.Wrap(err, "failed to replace credentials file", goerr.V(PathKey, s.path))
	}

	if err := os.Chmod(s.path, fileMode); err != nil {
		return goerr.Wrap(err, "failed to set credentials file mode", goerr.V(PathKey, s.path))
	}

	return nil
}

// CreateInitial seeds the store from environment-provided values
func (s *Store) CreateInitial(token, cookie, workspace string) (*model.StoredCredentials, error) {
	creds := model.NewInitialCredentials(token, cookie, workspace, s.clock.Now())
	if err := s.Save(creds); err != nil {
		return nil, err
	}
	return creds, nil
}
