package format

import (
	"fmt"
	"time"
)

// Age formats a duration compactly: "now", "5m", "2h", "3d", "2w", "3mo", "2y".
func Age(d time.Duration) string {
	if d < time.Minute {
		return "now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	days := int(d.Hours() / 24)
	switch {
	case days < 7:
		return fmt.Sprintf("%dd", days)
	case days < 30:
		return fmt.Sprintf("%dw", days/7)
	case days < 365:
		return fmt.Sprintf("%dmo", days/30)
	default:
		return fmt.Sprintf("%dy", days/365)
	}
}

// Since is Age(now - t). The zero time renders as "-".
func Since(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return Age(now.Sub(t))
}

// Date renders a calendar date: "January 2, 2006".
func Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("January 2, 2006")
}

// DateTime renders a short date with time of day: "Jan 2, 2006, 03:04 PM".
func DateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("Jan 2, 2006, 03:04 PM")
}
