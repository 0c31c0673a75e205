package cli_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/toolbridge/slack-mcp-server/pkg/cli"
	"github.com/toolbridge/slack-mcp-server/pkg/cli/config"
)

// clearSlackEnv neutralizes ambient configuration so each test controls the
// flag inputs completely. Setting a variable to the empty string makes the
// flag layer treat it as unset.
func clearSlackEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SLACK_BOT_TOKEN", "SLACK_USER_TOKEN", "SLACK_COOKIE_D", "SLACK_WORKSPACE",
		"SLACK_CREDENTIALS_PATH", "SLACK_REFRESH_INTERVAL_DAYS", "SLACK_REFRESH_ENABLED",
		"SLACK_ERROR_LOG_PATH", "SLACK_MEMORY_DIR",
		"SLACK_MCP_TRANSPORT", "SLACK_MCP_ADDR",
		"SLACK_MCP_LOG_LEVEL", "SLACK_MCP_LOG_FORMAT", "SLACK_MCP_LOG_OUTPUT",
	} {
		t.Setenv(key, "")
	}
}

func TestServeRejectsInvalidTransport(t *testing.T) {
	clearSlackEnv(t)

	err := cli.Run(context.Background(), []string{
		"slack-mcp-server", "serve",
		"--slack-bot-token", "xoxb-test",
		"--transport", "carrier-pigeon",
	}, "test")
	if !errors.Is(err, config.ErrInvalidTransport) {
		t.Errorf("Run() error = %v, want ErrInvalidTransport", err)
	}
}

func TestServeRequiresCredentials(t *testing.T) {
	clearSlackEnv(t)

	err := cli.Run(context.Background(), []string{"slack-mcp-server", "serve"}, "test")
	if !errors.Is(err, config.ErrNoCredentials) {
		t.Errorf("Run() error = %v, want ErrNoCredentials", err)
	}
}

func TestServeRequiresCookieWithUserToken(t *testing.T) {
	clearSlackEnv(t)

	err := cli.Run(context.Background(), []string{
		"slack-mcp-server", "serve",
		"--slack-user-token", "xoxc-test",
	}, "test")
	if !errors.Is(err, config.ErrMissingCookie) {
		t.Errorf("Run() error = %v, want ErrMissingCookie", err)
	}
}

func TestRefreshCommandRequiresUserAuth(t *testing.T) {
	clearSlackEnv(t)

	err := cli.Run(context.Background(), []string{
		"slack-mcp-server", "refresh",
		"--slack-bot-token", "xoxb-test",
	}, "test")
	if err == nil {
		t.Fatal("refresh with a bot token should fail")
	}
	if !strings.Contains(err.Error(), "user authentication") {
		t.Errorf("error should mention user authentication, got: %v", err)
	}
}

func TestRefreshCommandRequiresWorkspace(t *testing.T) {
	clearSlackEnv(t)

	err := cli.Run(context.Background(), []string{
		"slack-mcp-server", "refresh",
		"--slack-user-token", "xoxc-test",
		"--slack-cookie-d", "xoxd-test",
	}, "test")
	if err == nil {
		t.Fatal("refresh without a workspace should fail")
	}
	if !strings.Contains(err.Error(), "SLACK_WORKSPACE") {
		t.Errorf("error should mention SLACK_WORKSPACE, got: %v", err)
	}
}
