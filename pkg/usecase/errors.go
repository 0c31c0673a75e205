package usecase

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/types"
)

// Sentinel errors for the use case layer
var (
	ErrMemoryNotConfigured = goerr.New("memory directory is not configured; set SLACK_MEMORY_DIR")
	ErrErrorLogUnavailable = goerr.New("error log is not configured")
)

// Capability gate messages
const (
	msgSearchRequiresUser = "search_messages requires user authentication; set SLACK_USER_TOKEN and SLACK_COOKIE_D"
	msgRefreshBotAuth     = "refresh is only for user auth"
	msgRefreshNoWorkspace = "ensure SLACK_WORKSPACE is set"
)

// subjectCodes are the API failures whose message should name the id the
// call was about
var subjectCodes = map[types.APIErrorCode]bool{
	types.APIErrChannelNotFound: true,
	types.APIErrUserNotFound:    true,
	types.APIErrNotInChannel:    true,
	types.APIErrThreadNotFound:  true,
}

// withSubject normalizes a Slack call failure to an APIError and, for codes
// about a specific id, splices that id into the message.
func withSubject(err error, subject string) error {
	apiErr := model.AsAPIError(err)
	if !subjectCodes[apiErr.Code] {
		return apiErr
	}

	enriched := *apiErr
	enriched.Message = fmt.Sprintf("%s (%s)", apiErr.Message, subject)
	return &enriched
}
