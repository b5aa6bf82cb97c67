// Package timeutil provides time formatting and conversion utilities.
package timeutil

import (
	"fmt"
	"time"
)

// FormatSeconds converts seconds to HH:MM:SS.MS format for display.
//
// Supports fractional seconds for precise chunk boundaries.
//
// Example:
//
//	FormatSeconds(0)      // "00:00:00.00"
//	FormatSeconds(90)     // "00:01:30.00"
//	FormatSeconds(3661)   // "01:01:01.00"
//	FormatSeconds(30.53)  // "00:00:30.53"
func FormatSeconds(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := seconds - float64(hours*3600) - float64(minutes*60)
	return fmt.Sprintf("%02d:%02d:%05.2f", hours, minutes, secs)
}

// MinutesToDuration converts a fractional minute count to a time.Duration.
//
// Example:
//
//	MinutesToDuration(10)   // 10m0s
//	MinutesToDuration(1.5)  // 1m30s
func MinutesToDuration(minutes float64) time.Duration {
	return time.Duration(minutes * float64(time.Minute))
}
