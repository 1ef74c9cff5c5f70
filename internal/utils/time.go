package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
)

// NowUTC returns current time in UTC, truncated to the second precision the
// store keeps.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// ParseDeparture accepts a date, a "YYYY-MM-DD HH:MM[:SS]" timestamp or
// RFC3339. Values without a zone are read as UTC.
func ParseDeparture(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, layoutDateTime, "2006-01-02 15:04", "2006-01-02T15:04", layoutDate} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// FormatDate formats time to YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(layoutDate)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS".
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(layoutDateTime)
}
