// Package utils provides utility functions for the application.
package utils

import (
	"time"
)

// DateLayout is the wire format of calendar dates (validity windows, order dates)
const DateLayout = "2006-01-02"

// UTCNow returns the current time in UTC
func UTCNow() time.Time {
	return time.Now().UTC()
}

// UTCToday returns the current UTC calendar date at midnight
func UTCToday() time.Time {
	return DateOf(UTCNow())
}

// DateOf truncates t to its calendar date in UTC
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// WithinDateRange reports whether asOf falls in [start, end] by calendar date.
// A nil bound is unbounded on that side.
func WithinDateRange(asOf time.Time, start, end *time.Time) bool {
	day := DateOf(asOf)
	if start != nil && day.Before(DateOf(*start)) {
		return false
	}
	if end != nil && day.After(DateOf(*end)) {
		return false
	}
	return true
}

// DateRangesOverlap reports whether two inclusive calendar ranges share at least one day.
// Nil bounds are unbounded.
func DateRangesOverlap(startA, endA, startB, endB *time.Time) bool {
	if endA != nil && startB != nil && DateOf(*endA).Before(DateOf(*startB)) {
		return false
	}
	if endB != nil && startA != nil && DateOf(*endB).Before(DateOf(*startA)) {
		return false
	}
	return true
}

// ParseDate parses a YYYY-MM-DD string into a UTC calendar date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// ParseDatePtr parses an optional YYYY-MM-DD string; empty input yields nil
func ParseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDatePtr formats an optional date as YYYY-MM-DD
func FormatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(DateLayout)
	return &s
}
