package format_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/toolbridge/slack-mcp-server/pkg/service/format"
)

func slackTS(t time.Time) string {
	return fmt.Sprintf("%d.000000", t.Unix())
}

func TestFormatRelativeTime(t *testing.T) {
	// Wednesday, March 15 2023, 2:30 PM UTC
	now := time.Date(2023, 3, 15, 14, 30, 0, 0, time.UTC)

	cases := []struct {
		name string
		ts   string
		want string
	}{
		{"just now", slackTS(now.Add(-30 * time.Second)), "just now"},
		{"one minute", slackTS(now.Add(-1 * time.Minute)), "1 min ago"},
		{"under an hour", slackTS(now.Add(-59 * time.Minute)), "59 min ago"},
		{"earlier today", slackTS(now.Add(-3 * time.Hour)), "today at 11:30 AM"},
		{"this morning", slackTS(time.Date(2023, 3, 15, 0, 5, 0, 0, time.UTC)), "today at 12:05 AM"},
		{"yesterday", slackTS(time.Date(2023, 3, 14, 18, 0, 0, 0, time.UTC)), "yesterday at 6:00 PM"},
		{"two days back", slackTS(time.Date(2023, 3, 13, 9, 0, 0, 0, time.UTC)), "Monday at 9:00 AM"},
		{"six days back", slackTS(time.Date(2023, 3, 9, 12, 0, 0, 0, time.UTC)), "Thursday at 12:00 PM"},
		{"this year", slackTS(time.Date(2023, 1, 2, 8, 15, 0, 0, time.UTC)), "Jan 2 at 8:15 AM"},
		{"previous year", slackTS(time.Date(2022, 12, 31, 23, 59, 0, 0, time.UTC)), "Dec 31, 2022 at 11:59 PM"},
		{"years back", slackTS(time.Date(2020, 7, 4, 12, 0, 0, 0, time.UTC)), "Jul 4, 2020 at 12:00 PM"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Value(t, format.FormatRelativeTime(tc.ts, now)).Equal(tc.want)
		})
	}
}

func TestFormatRelativeTimeFractionalSeconds(t *testing.T) {
	now := time.Date(2023, 3, 15, 14, 30, 0, 0, time.UTC)
	ts := fmt.Sprintf("%d.123456", now.Add(-10*time.Second).Unix())
	gt.Value(t, format.FormatRelativeTime(ts, now)).Equal("just now")
}

func TestFormatRelativeTimeNonNumeric(t *testing.T) {
	now := time.Date(2023, 3, 15, 14, 30, 0, 0, time.UTC)

	for _, raw := range []string{"", "not-a-timestamp", "12.34.56"} {
		gt.Value(t, format.FormatRelativeTime(raw, now)).Equal(raw)
	}
}

func TestFormatRelativeTimeSevenDaysUsesDate(t *testing.T) {
	now := time.Date(2023, 3, 15, 14, 30, 0, 0, time.UTC)
	ts := slackTS(time.Date(2023, 3, 8, 12, 0, 0, 0, time.UTC))
	gt.Value(t, format.FormatRelativeTime(ts, now)).Equal("Mar 8 at 12:00 PM")
}
