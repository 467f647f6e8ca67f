// Package timecode converts between "HH:MM:SS" text and whole seconds.
//
// Every function here is total: malformed input never produces an error,
// it normalizes to zero instead. Rundown timing, playout durations and the
// device adapter all rely on these exact rules.
package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SecondsPerDay is the modulus applied to time-of-day values.
const SecondsPerDay = 24 * 3600

// Zero is the formatted zero duration.
const Zero = "00:00:00"

// ParseDuration parses "HH:MM:SS" or "MM:SS" into seconds.
// Any other shape yields 0. A component that is empty, non-numeric or
// negative counts as 0 while the remaining components still contribute.
func ParseDuration(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	parts := strings.Split(text, ":")
	switch len(parts) {
	case 3:
		return component(parts[0])*3600 + component(parts[1])*60 + component(parts[2])
	case 2:
		return component(parts[0])*60 + component(parts[1])
	default:
		return 0
	}
}

func component(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// FormatDuration renders seconds as "HH:MM:SS". Negative input renders as
// Zero. Hours are not wrapped, so 100 hours prints as "100:00:00".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		return Zero
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// FormatSeconds is FormatDuration for fractional input. NaN, infinities and
// negative values render as Zero; fractions are floored.
func FormatSeconds(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return Zero
	}
	return FormatDuration(int(math.Floor(seconds)))
}

// FormatTimeOfDay renders seconds since midnight, wrapping at 24 hours.
func FormatTimeOfDay(seconds int) string {
	if seconds < 0 {
		return Zero
	}
	return FormatDuration(seconds % SecondsPerDay)
}

// AddDurations parses both values, sums them and formats the result as a
// duration. The sum is not wrapped to 24 hours.
func AddDurations(a, b string) string {
	return FormatDuration(ParseDuration(a) + ParseDuration(b))
}

// Valid reports whether text is a strict "HH:MM:SS" value with minutes and
// seconds below 60. It is used where input is rejected rather than normalized.
func Valid(text string) bool {
	parts := strings.Split(text, ":")
	if len(parts) != 3 {
		return false
	}
	for i, p := range parts {
		if len(p) < 2 {
			return false
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return false
		}
		if i > 0 && (len(p) != 2 || n >= 60) {
			return false
		}
	}
	return true
}
