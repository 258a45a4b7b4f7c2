package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the persisted due-date format.
const DateLayout = "2006-01-02"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseDate parses a strict YYYY-MM-DD gregorian date. Dates that match the
// pattern but do not exist, like 2024-02-30, are rejected. The result is
// midnight UTC so calendar comparisons never see a zone offset.
func ParseDate(s string) (time.Time, error) {
	if !datePattern.MatchString(s) {
		return time.Time{}, fmt.Errorf("date %q: expected YYYY-MM-DD", s)
	}
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", s, err)
	}
	return d, nil
}

// NormalizeDueDate trims a due date. An empty input yields "" with ok=true;
// an input that is not a real calendar date yields "" with ok=false.
func NormalizeDueDate(s string) (string, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return "", true
	}
	d, err := ParseDate(raw)
	if err != nil {
		return "", false
	}
	return d.Format(DateLayout), true
}

// CalendarDay drops the time of day from t, keeping the year, month and day
// as seen in t's own location.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseTimestamp accepts the timestamp shapes the board has written over
// time: RFC 3339 with or without fractional seconds, a bare datetime read in
// the host's local zone, or a bare date read as UTC midnight.
func ParseTimestamp(s string) (time.Time, bool) {
	return parseTimestampIn(s, time.Local)
}

func parseTimestampIn(s string, local *time.Location) (time.Time, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, true
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, raw, local); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}
