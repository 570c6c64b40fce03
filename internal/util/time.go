package util

import (
	"fmt"
	"time"
)

// NowMillis returns the current time in milliseconds since Unix epoch.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// MillisToTime converts milliseconds since Unix epoch to time.Time.
func MillisToTime(millis int64) time.Time {
	return time.UnixMilli(millis)
}

// FormatTime formats a time in a human-readable way.
func FormatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

// FormatMillis formats milliseconds since epoch in a human-readable way.
func FormatMillis(millis int64) string {
	return FormatTime(MillisToTime(millis))
}

// DaysAgo renders how long ago a timestamp was in whole days:
// "today", "1 day ago" or "N days ago".
func DaysAgo(millis int64, now time.Time) string {
	days := int(now.Sub(MillisToTime(millis)).Hours() / 24)
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}
