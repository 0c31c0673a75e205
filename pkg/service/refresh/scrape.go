package refresh

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/types"
	"github.com/toolbridge/slack-mcp-server/pkg/utils/safe"
)

// Slack serves the boot payload only to browser-looking requests, so
// the scrape sends the headers a real browser would.
const (
	scrapeUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	scrapeAccept    = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	scrapeLanguage  = "en-US,en;q=0.9"

	// maxScrapeBody bounds how much of the workspace page is read
	maxScrapeBody = 10 << 20
)

var (
	// The boot payload embeds the api token as JSON; older page variants
	// use a looser unquoted form.
	apiTokenQuotedRe = regexp.MustCompile(`"api_token"\s*:\s*"(xoxc-[^"]+)"`)
	apiTokenLooseRe  = regexp.MustCompile(`api_token\s*:\s*['"]?(xoxc-[^'",}\s]+)`)

	// Cookie attributes like Expires contain commas, so Set-Cookie values
	// are split only at commas that start a new name=value pair.
	cookiePairSplitRe = regexp.MustCompile(`,(\s*[A-Za-z0-9_-]+=)`)

	signinPathMarkers = []string{"/signin", "/sign_in", "?redir="}
	signinBodyMarkers = []string{
		`action="/signin"`,
		`action="/sign_in"`,
		"You need to sign in",
		"Sign in to Slack",
	}
)

// scrapeResult carries the credentials recovered from the workspace
// page. Cookie is empty when Slack did not rotate the session cookie.
type scrapeResult struct {
	token  string
	cookie string
}

// scrapeWorkspace loads the workspace page with the current session
// cookie and extracts the fresh api token plus any rotated cookie.
// Failures come back classified: 429 and transport errors are
// retryable, a sign-in page or 401/403 means the session is gone.
func (m *Manager) scrapeWorkspace(ctx context.Context, workspace, cookie string) (*scrapeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL(workspace), nil)
	if err != nil {
		return nil, model.NewRefreshError(types.RefreshErrNetwork, fmt.Sprintf("failed to build workspace request: %v", err))
	}
	req.Header.Set("Cookie", "d="+cookie)
	req.Header.Set("User-Agent", scrapeUserAgent)
	req.Header.Set("Accept", scrapeAccept)
	req.Header.Set("Accept-Language", scrapeLanguage)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, model.NewRefreshError(types.RefreshErrNetwork, fmt.Sprintf("failed to reach workspace: %v", err))
	}
	defer safe.Close(ctx, resp.Body)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, model.NewRefreshError(types.RefreshErrRateLimited, "workspace page returned 429")
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, model.NewRefreshError(types.RefreshErrRevoked, fmt.Sprintf("workspace page returned %d", resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, model.NewRefreshError(types.RefreshErrNetwork, fmt.Sprintf("workspace page returned %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScrapeBody))
	if err != nil {
		return nil, model.NewRefreshError(types.RefreshErrNetwork, fmt.Sprintf("failed to read workspace page: %v", err))
	}
	page := string(body)

	// Redirects are followed, so landing on the sign-in page means the
	// session no longer authenticates.
	if finalURL := resp.Request.URL.String(); isSigninURL(finalURL) || isSigninPage(page) {
		return nil, model.NewRefreshError(types.RefreshErrRevoked, "workspace page redirected to sign-in")
	}

	token := extractAPIToken(page)
	if token == "" {
		return nil, model.NewRefreshError(types.RefreshErrInvalid, "no api token found in workspace page")
	}

	return &scrapeResult{
		token:  token,
		cookie: extractDCookie(resp.Header.Values("Set-Cookie")),
	}, nil
}

func isSigninURL(u string) bool {
	for _, marker := range signinPathMarkers {
		if strings.Contains(u, marker) {
			return true
		}
	}
	return false
}

func isSigninPage(page string) bool {
	for _, marker := range signinBodyMarkers {
		if strings.Contains(page, marker) {
			return true
		}
	}
	return false
}

// extractAPIToken pulls the xoxc api token out of the workspace page.
// Returns "" when no token is present.
func extractAPIToken(page string) string {
	if m := apiTokenQuotedRe.FindStringSubmatch(page); m != nil {
		return m[1]
	}
	if m := apiTokenLooseRe.FindStringSubmatch(page); m != nil {
		return m[1]
	}
	return ""
}

// extractDCookie finds a rotated d session cookie in Set-Cookie headers.
// Only xoxd values count; anything else returns "" so the caller keeps
// the current cookie.
func extractDCookie(headers []string) string {
	for _, header := range headers {
		split := cookiePairSplitRe.ReplaceAllString(header, "\n$1")
		for _, part := range strings.Split(split, "\n") {
			part = strings.TrimSpace(part)
			if !strings.HasPrefix(part, "d=") {
				continue
			}
			value := strings.TrimPrefix(part, "d=")
			if i := strings.IndexByte(value, ';'); i >= 0 {
				value = value[:i]
			}
			if strings.HasPrefix(value, model.CookiePrefix) {
				return value
			}
		}
	}
	return ""
}
