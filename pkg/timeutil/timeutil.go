// Package timeutil provides human-oriented duration formatting shared by the
// debug logger and CLI output.
package timeutil

import (
	"fmt"
	"time"
)

// FormatDuration renders a duration in the compact style of the debug npm
// package: microseconds below 1ms, whole milliseconds below 1s, then seconds,
// minutes, and hours with at most two units.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		m := int(d.Minutes())
		s := int(d.Seconds()) - m*60
		return fmt.Sprintf("%dm%ds", m, s)
	default:
		h := int(d.Hours())
		m := int(d.Minutes()) - h*60
		return fmt.Sprintf("%dh%dm", h, m)
	}
}
