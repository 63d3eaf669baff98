package utils

import (
	"fmt"
	"time"
)

// FormatAge renders a duration as a compact human friendly age, e.g.
// "45m" or "3h 12m".
func FormatAge(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// PrettyDate renders a timestamp for chat messages.
func PrettyDate(t time.Time) string {
	return t.UTC().Format("02 Jan 2006 15:04 MST")
}
