// Package timeline converts a nested roadmap analysis into a flat,
// schedule-resolved feature list and reconciles edits on that list back
// into the nested structure. All functions here are total: ambiguous or
// malformed input degrades to documented defaults instead of errors.
package timeline

import (
	"strconv"
	"strings"
)

const (
	defaultWeeks  = 2
	weeksPerMonth = 4
)

// ParseDuration converts free-text phase durations such as "4 weeks" or
// "2 months" into a whole month count. Week counts round up to the next
// month. Unrecognized input defaults to one month. The result is always
// >= 1.
func ParseDuration(text string) int {
	lowered := strings.ToLower(text)

	if strings.Contains(lowered, "week") {
		weeks := leadingInt(lowered, defaultWeeks)
		if weeks < 1 {
			weeks = 1
		}

		return (weeks + weeksPerMonth - 1) / weeksPerMonth
	}

	if strings.Contains(lowered, "month") {
		months := leadingInt(lowered, 1)
		if months < 1 {
			months = 1
		}

		return months
	}

	return 1
}

// leadingInt extracts the first integer in s, or fallback when none is
// present.
func leadingInt(s string, fallback int) int {
	start := -1

	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}

			continue
		}

		if start >= 0 {
			n, err := strconv.Atoi(s[start:i])
			if err != nil {
				return fallback
			}

			return n
		}
	}

	if start >= 0 {
		n, err := strconv.Atoi(s[start:])
		if err != nil {
			return fallback
		}

		return n
	}

	return fallback
}
