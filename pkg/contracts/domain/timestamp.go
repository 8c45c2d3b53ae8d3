package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the calendar date format used for report grouping keys.
const DateFormat = "2006-01-02"

// timestampLayouts lists the ISO-8601 shapes accepted for order timestamps,
// offset-carrying layouts first. Offsets may be extended (+05:30), basic
// (+0530) or hour-only (+05).
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"20060102T150405.999999999Z07:00",
	"20060102T150405.999999999Z0700",
	"20060102T150405.999999999Z07",
	"20060102T150405.999999999",
	DateFormat,
}

// ParseTimestamp parses an ISO-8601 order timestamp.
//
// When the timestamp carries an offset the returned time keeps that offset.
// Naive timestamps are returned as wall-clock values in UTC, with no
// conversion from the local zone, so their date component is the literal one.
func ParseTimestamp(s string) (time.Time, error) {
	// RFC 3339 allows lowercase "t" and "z".
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp %q is not ISO-8601", s)
}

// CalendarDate returns the YYYY-MM-DD date of an ISO-8601 timestamp, taken in
// the timestamp's own offset.
func CalendarDate(s string) (string, error) {
	t, err := ParseTimestamp(s)
	if err != nil {
		return "", err
	}
	return t.Format(DateFormat), nil
}
