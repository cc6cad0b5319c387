package utils

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout is the calendar-day format used for all series keys.
const dateLayout = "2006-01-02"

// DateKey reduces a timestamp to its UTC calendar day ("2006-01-02").
// Article publish timestamps and price bar dates are keyed with this so
// the two series line up regardless of time-of-day.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// ParseDate parses a "2006-01-02" date string as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// ParseTimestamp parses an RFC3339 publish timestamp as reported by
// news providers (e.g. "2024-03-01T14:30:00Z").
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// TrimDate strips any time component from a provider date string,
// e.g. "2024-03-01T00:00:00+0000" → "2024-03-01".
func TrimDate(s string) string {
	if len(s) > len(dateLayout) {
		return s[:len(dateLayout)]
	}
	return s
}

// DefaultRange returns the default query window ending today (UTC) and
// starting the given number of years earlier.
func DefaultRange(years int) (from, to string) {
	now := time.Now().UTC()
	return DateKey(now.AddDate(-years, 0, 0)), DateKey(now)
}

// NormalizeTicker uppercases and trims a user-supplied ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
