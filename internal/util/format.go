package util

import (
	"fmt"
	"time"
)

// FormatUptime formats a running duration as "2h 5m", or "5m" under an hour.
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	mins := int(d / time.Minute)
	hrs := mins / 60
	if hrs > 0 {
		return fmt.Sprintf("%dh %dm", hrs, mins%60)
	}
	return fmt.Sprintf("%dm", mins)
}

// TimeAgo formats the time elapsed between then and now for history rows.
func TimeAgo(then, now time.Time) string {
	secs := int(now.Sub(then) / time.Second)
	if secs < 0 {
		secs = 0
	}
	if secs < 60 {
		return fmt.Sprintf("%ds ago", secs)
	}
	mins := secs / 60
	if mins < 60 {
		return fmt.Sprintf("%dm ago", mins)
	}
	hrs := mins / 60
	if hrs < 24 {
		return fmt.Sprintf("%dh %dm ago", hrs, mins%60)
	}
	return fmt.Sprintf("%dd ago", hrs/24)
}

// FormatKbps renders a bitrate, or a dash when the server did not report one.
func FormatKbps(kbps int) string {
	if kbps <= 0 {
		return "— kbps"
	}
	return fmt.Sprintf("%d kbps", kbps)
}
