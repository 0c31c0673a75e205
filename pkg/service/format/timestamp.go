package format

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

const clockLayout = "3:04 PM"

// FormatRelativeTime renders a raw Slack timestamp ("seconds.microseconds")
// as a human-readable string relative to now:
// under a minute "just now", under an hour "N min ago", then "today at",
// "yesterday at", the weekday for the last six days, "Jan 2 at" within the
// current year, and "Jan 2, 2006 at" beyond it. Clock times are 12-hour
// with zero-padded minutes. Inputs that do not parse as a number are
// returned unchanged.
func FormatRelativeTime(ts string, now time.Time) string {
	secs, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return ts
	}

	sec, frac := math.Modf(secs)
	msgTime := time.Unix(int64(sec), int64(frac*1e9)).In(now.Location())

	elapsed := now.Sub(msgTime)
	if elapsed < time.Minute {
		return "just now"
	}
	if elapsed < time.Hour {
		return fmt.Sprintf("%d min ago", int(elapsed.Minutes()))
	}

	clock := msgTime.Format(clockLayout)
	switch dayDiff(msgTime, now) {
	case 0:
		return "today at " + clock
	case 1:
		return "yesterday at " + clock
	case 2, 3, 4, 5, 6:
		return msgTime.Format("Monday") + " at " + clock
	}

	if msgTime.Year() == now.Year() {
		return msgTime.Format("Jan 2") + " at " + clock
	}
	return msgTime.Format("Jan 2, 2006") + " at " + clock
}

// dayDiff counts midnight boundaries between t and now
func dayDiff(t, now time.Time) int {
	tDay := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return int(nowDay.Sub(tDay).Hours() / 24)
}
