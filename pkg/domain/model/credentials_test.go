package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/types"
)

func validCredentials(now time.Time) *model.StoredCredentials {
	return model.NewInitialCredentials("xoxc-token", "xoxd-cookie", "acme", now)
}

func TestNewInitialCredentials(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	creds := validCredentials(now)

	gt.Number(t, creds.Version).Equal(model.CredentialsVersion)
	gt.S(t, creds.Credentials.Token).Equal("xoxc-token")
	gt.S(t, creds.Credentials.Cookie).Equal("xoxd-cookie")
	gt.S(t, creds.Credentials.Workspace).Equal("acme")
	gt.Value(t, creds.Metadata.LastRefreshed).Equal(now)
	gt.Number(t, creds.Metadata.RefreshCount).Equal(0)
	gt.Value(t, creds.Metadata.Source).Equal(types.RefreshSourceInitial)
	gt.NoError(t, creds.Validate())
}

func TestStoredCredentialsRefreshed(t *testing.T) {
	seeded := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	refreshed := seeded.Add(7 * 24 * time.Hour)

	creds := validCredentials(seeded)
	next := creds.Refreshed("xoxc-new", "xoxd-new", types.RefreshSourceAuto, refreshed)

	gt.S(t, next.Credentials.Token).Equal("xoxc-new")
	gt.S(t, next.Credentials.Cookie).Equal("xoxd-new")
	gt.S(t, next.Credentials.Workspace).Equal("acme")
	gt.Value(t, next.Metadata.LastRefreshed).Equal(refreshed)
	gt.Number(t, next.Metadata.RefreshCount).Equal(1)
	gt.Value(t, next.Metadata.Source).Equal(types.RefreshSourceAuto)
	gt.NoError(t, next.Validate())

	// the predecessor record is untouched
	gt.S(t, creds.Credentials.Token).Equal("xoxc-token")
	gt.Number(t, creds.Metadata.RefreshCount).Equal(0)
}

func TestStoredCredentialsValidate(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(c *model.StoredCredentials)
		wantErr bool
	}{
		{
			name:    "valid record",
			mutate:  func(c *model.StoredCredentials) {},
			wantErr: false,
		},
		{
			name:    "wrong version",
			mutate:  func(c *model.StoredCredentials) { c.Version = 2 },
			wantErr: true,
		},
		{
			name:    "bot token in user slot",
			mutate:  func(c *model.StoredCredentials) { c.Credentials.Token = "xoxb-bot" },
			wantErr: true,
		},
		{
			name:    "cookie without prefix",
			mutate:  func(c *model.StoredCredentials) { c.Credentials.Cookie = "session" },
			wantErr: true,
		},
		{
			name:    "empty workspace",
			mutate:  func(c *model.StoredCredentials) { c.Credentials.Workspace = "" },
			wantErr: true,
		},
		{
			name:    "zero lastRefreshed",
			mutate:  func(c *model.StoredCredentials) { c.Metadata.LastRefreshed = time.Time{} },
			wantErr: true,
		},
		{
			name:    "negative refreshCount",
			mutate:  func(c *model.StoredCredentials) { c.Metadata.RefreshCount = -1 },
			wantErr: true,
		},
		{
			name:    "unknown source",
			mutate:  func(c *model.StoredCredentials) { c.Metadata.Source = "cron" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds := validCredentials(now)
			tt.mutate(creds)

			err := creds.Validate()
			if tt.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestStoredCredentialsLogValueMasks(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	creds := model.NewInitialCredentials("xoxc-1234567890-abcdefgh", "xoxd-0987654321-hgfedcba", "acme", now)

	val := creds.LogValue()
	for _, attr := range val.Group() {
		gt.Value(t, attr.Value.String()).NotEqual("xoxc-1234567890-abcdefgh")
		gt.Value(t, attr.Value.String()).NotEqual("xoxd-0987654321-hgfedcba")
	}
}
