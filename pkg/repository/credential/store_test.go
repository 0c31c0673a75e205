package credential_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/m-mizutani/gt"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/types"
	"github.com/toolbridge/slack-mcp-server/pkg/repository/credential"
)

func testCredentials(now time.Time) *model.StoredCredentials {
	return model.NewInitialCredentials("xoxc-test-token-1234", "xoxd-test-cookie-5678", "myworkspace", now)
}

func TestStoreSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "credentials.json")
	store := credential.New(path)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	creds := testCredentials(now)

	gt.NoError(t, store.Save(creds)).Required()
	gt.Bool(t, store.Exists()).True()

	loaded, err := store.Load()
	gt.NoError(t, err).Required()
	gt.Value(t, loaded.Credentials.Token).Equal("xoxc-test-token-1234")
	gt.Value(t, loaded.Credentials.Cookie).Equal("xoxd-test-cookie-5678")
	gt.Value(t, loaded.Credentials.Workspace).Equal("myworkspace")
	gt.Value(t, loaded.Metadata.Source).Equal(types.RefreshSourceInitial)
	gt.Number(t, loaded.Metadata.RefreshCount).Equal(0)
	gt.Bool(t, loaded.Metadata.LastRefreshed.Equal(now)).True()
}

func TestStoreFileMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "credentials.json")
	store := credential.New(path)

	gt.NoError(t, store.Save(testCredentials(time.Now()))).Required()

	info, err := os.Stat(path)
	gt.NoError(t, err).Required()
	gt.Value(t, info.Mode().Perm()).Equal(os.FileMode(0o600))

	dirInfo, err := os.Stat(filepath.Dir(path))
	gt.NoError(t, err).Required()
	gt.Value(t, dirInfo.Mode().Perm()).Equal(os.FileMode(0o700))
}

func TestStoreTightensExistingMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")
	gt.NoError(t, os.WriteFile(path, []byte("{}"), 0o644)).Required()

	store := credential.New(path)
	gt.NoError(t, store.Save(testCredentials(time.Now()))).Required()

	info, err := os.Stat(path)
	gt.NoError(t, err).Required()
	gt.Value(t, info.Mode().Perm()).Equal(os.FileMode(0o600))
}

func TestStoreLoadMissing(t *testing.T) {
	store := credential.New(filepath.Join(t.TempDir(), "credentials.json"))

	gt.Bool(t, store.Exists()).False()
	_, err := store.Load()
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, credential.ErrNotFound)).True()
}

func TestStoreLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")

	cases := map[string]string{
		"not json":      "{broken",
		"wrong version": `{"version":2,"credentials":{"token":"xoxc-a","cookie":"xoxd-b","workspace":"w"},"metadata":{"lastRefreshed":"2025-06-01T00:00:00Z","refreshCount":0,"source":"initial"}}`,
		"bad token":     `{"version":1,"credentials":{"token":"xoxb-a","cookie":"xoxd-b","workspace":"w"},"metadata":{"lastRefreshed":"2025-06-01T00:00:00Z","refreshCount":0,"source":"initial"}}`,
		"bad source":    `{"version":1,"credentials":{"token":"xoxc-a","cookie":"xoxd-b","workspace":"w"},"metadata":{"lastRefreshed":"2025-06-01T00:00:00Z","refreshCount":0,"source":"weekly"}}`,
		"bad timestamp": `{"version":1,"credentials":{"token":"xoxc-a","cookie":"xoxd-b","workspace":"w"},"metadata":{"lastRefreshed":"yesterday","refreshCount":0,"source":"initial"}}`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
			store := credential.New(path)
			_, err := store.Load()
			gt.Error(t, err)
		})
	}
}

func TestStoreSaveRefusesInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")
	store := credential.New(path)

	good := testCredentials(time.Now())
	gt.NoError(t, store.Save(good)).Required()
	before, err := os.ReadFile(path)
	gt.NoError(t, err).Required()

	bad := testCredentials(time.Now())
	bad.Credentials.Workspace = ""
	gt.Error(t, store.Save(bad))

	// The previous file must be untouched and no temp file may remain.
	after, err := os.ReadFile(path)
	gt.NoError(t, err).Required()
	gt.Value(t, string(after)).Equal(string(before))

	entries, err := os.ReadDir(dir)
	gt.NoError(t, err).Required()
	for _, e := range entries {
		gt.Bool(t, strings.Contains(e.Name(), ".tmp.")).False()
	}
}

func TestStoreCreateInitial(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC))
	store := credential.New(filepath.Join(t.TempDir(), "credentials.json"), credential.WithClock(clock))

	creds, err := store.CreateInitial("xoxc-env-token", "xoxd-env-cookie", "acme")
	gt.NoError(t, err).Required()
	gt.Value(t, creds.Metadata.Source).Equal(types.RefreshSourceInitial)
	gt.Number(t, creds.Metadata.RefreshCount).Equal(0)
	gt.Bool(t, creds.Metadata.LastRefreshed.Equal(clock.Now())).True()

	loaded, err := store.Load()
	gt.NoError(t, err).Required()
	gt.Value(t, loaded.Credentials.Token).Equal("xoxc-env-token")
}

func TestRefreshedSuccessor(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	creds := testCredentials(now)

	later := now.Add(7 * 24 * time.Hour)
	next := creds.Refreshed("xoxc-new", "xoxd-new", types.RefreshSourceAuto, later)

	gt.Value(t, next.Credentials.Token).Equal("xoxc-new")
	gt.Value(t, next.Credentials.Cookie).Equal("xoxd-new")
	gt.Value(t, next.Credentials.Workspace).Equal("myworkspace")
	gt.Number(t, next.Metadata.RefreshCount).Equal(1)
	gt.Value(t, next.Metadata.Source).Equal(types.RefreshSourceAuto)
	gt.Bool(t, next.Metadata.LastRefreshed.Equal(later)).True()

	// The original record is not mutated.
	gt.Value(t, creds.Credentials.Token).Equal("xoxc-test-token-1234")
	gt.Number(t, creds.Metadata.RefreshCount).Equal(0)
}
