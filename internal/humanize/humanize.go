// Package humanize formats byte counts, durations, and rates for log
// output.
package humanize

import (
	"fmt"
	"strings"
)

// Bytes renders a byte count with a binary unit suffix.
func Bytes(n float64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d bytes", int64(n))
	case n < 1024*1024:
		return fmt.Sprintf("%.2f Kb", n/1024)
	case n < 1024*1024*1024:
		return fmt.Sprintf("%.2f Mb", n/(1024*1024))
	case n < 1024*1024*1024*1024:
		return fmt.Sprintf("%.2f Gb", n/(1024*1024*1024))
	default:
		return fmt.Sprintf("%.2f Tb", n/(1024*1024*1024*1024))
	}
}

// Seconds renders a duration in whole seconds as "1h 10m 30s", omitting
// zero components.
func Seconds(seconds float64) string {
	total := int64(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	var b strings.Builder
	if hours > 0 {
		fmt.Fprintf(&b, "%dh ", hours)
	}
	if minutes > 0 {
		fmt.Fprintf(&b, "%dm ", minutes)
	}
	if secs > 0 {
		fmt.Fprintf(&b, "%ds", secs)
	}
	return strings.TrimSpace(b.String())
}

// Rate renders a count-per-elapsed-time as the largest unit that yields
// at least one event per unit: "/s", "/m", "/h", else "/d".
func Rate(count int, seconds float64) string {
	if seconds <= 0 {
		return fmt.Sprintf("%d/s", count)
	}
	perSecond := float64(count) / seconds
	perMinute := float64(count) * 60 / seconds
	perHour := float64(count) * 3600 / seconds
	perDay := float64(count) * 86400 / seconds

	switch {
	case perSecond >= 1:
		return fmt.Sprintf("%.2f/s", perSecond)
	case perMinute >= 1:
		return fmt.Sprintf("%.2f/m", perMinute)
	case perHour >= 1:
		return fmt.Sprintf("%.2f/h", perHour)
	default:
		return fmt.Sprintf("%.2f/d", perDay)
	}
}
