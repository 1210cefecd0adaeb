package pattern

import (
	"strings"
	"time"
)

// =============================================================================
// TEMPORAL PARSING - Fixed formats, nil-like fallback, ranking sentinels
// =============================================================================

const dateLayout = "2006-01-02"

// Timestamps arrive with the date and time separated by either a space
// or a 'T', depending on which upstream endpoint produced the record.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Ranking sentinels: a date or timestamp that fails to parse is ranked
// as if it were in the far past. It is never treated as "missing from
// comparison" - every candidate gets a full comparison key.
var (
	sentinelDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
	sentinelTime = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// ParseDate parses a calendar date in YYYY-MM-DD form. Surrounding
// whitespace is ignored. Returns ok=false on empty input or any
// format mismatch; never panics.
func ParseDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(dateLayout, text, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseTimestamp parses a date+time in either accepted layout.
func ParseTimestamp(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, text, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// onOrBefore reports a <= b at day granularity.
func onOrBefore(a, b time.Time) bool {
	return !a.After(b)
}
