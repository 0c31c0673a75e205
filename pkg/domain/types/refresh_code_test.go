package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/types"
)

func TestRefreshErrorCode_Retryable(t *testing.T) {
	tests := []struct {
		name string
		code types.RefreshErrorCode
		want bool
	}{
		{
			name: "network error retries",
			code: types.RefreshErrNetwork,
			want: true,
		},
		{
			name: "rate limited retries",
			code: types.RefreshErrRateLimited,
			want: true,
		},
		{
			name: "storage error retries",
			code: types.RefreshErrStorage,
			want: true,
		},
		{
			name: "in progress retries",
			code: types.RefreshErrInProgress,
			want: true,
		},
		{
			name: "revoked session is terminal",
			code: types.RefreshErrRevoked,
			want: false,
		},
		{
			name: "invalid response is terminal",
			code: types.RefreshErrInvalid,
			want: false,
		},
		{
			name: "not available is terminal",
			code: types.RefreshErrNotAvailable,
			want: false,
		},
		{
			name: "unknown is terminal",
			code: types.RefreshErrUnknown,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want {
				gt.B(t, tt.code.Retryable()).True()
			} else {
				gt.B(t, tt.code.Retryable()).False()
			}
		})
	}
}

func TestRefreshErrorCode_IsValid(t *testing.T) {
	codes := []types.RefreshErrorCode{
		types.RefreshErrNetwork,
		types.RefreshErrRateLimited,
		types.RefreshErrStorage,
		types.RefreshErrInProgress,
		types.RefreshErrRevoked,
		types.RefreshErrInvalid,
		types.RefreshErrNotAvailable,
		types.RefreshErrUnknown,
	}
	for _, code := range codes {
		gt.B(t, code.IsValid()).
			Describef("code %s should be valid", code).
			True()
	}

	gt.B(t, types.RefreshErrorCode("TIMEOUT").IsValid()).False()
	gt.B(t, types.RefreshErrorCode("").IsValid()).False()
}

func TestRefreshErrorCode_String(t *testing.T) {
	gt.S(t, types.RefreshErrRevoked.String()).Equal("SESSION_REVOKED")
	gt.S(t, types.RefreshErrInProgress.String()).Equal("REFRESH_IN_PROGRESS")
}
