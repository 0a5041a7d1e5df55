package utils

import (
	"strings"
	"time"
)

// Booking dates come over the wire as plain YYYY-MM-DD, optionally with a
// HH:MM:SS suffix for pickup/return timestamps. Both are read in the
// server's local zone.
const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
)

// NowUTC is the single clock source for persisted timestamps.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseDate parses a date-only value, trimming surrounding whitespace.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), time.Local)
}

// ParseDateTime parses a date with a time-of-day component.
func ParseDateTime(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDateTime, strings.TrimSpace(s), time.Local)
}

// FormatDate renders the date-only form used in responses and invoices.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(layoutDate)
}

// FormatDateTime renders the full timestamp form.
func FormatDateTime(t time.Time) string {
	return t.In(time.Local).Format(layoutDateTime)
}
