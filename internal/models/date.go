package models

import (
	"fmt"
	"time"
)

// DateFormat is the wire and storage format for calendar dates.
const DateFormat = "2006-01-02"

// Date is a calendar date without time-of-day, in ISO 8601 form
// ("2026-07-14"). ISO dates compare correctly as strings.
type Date string

// ParseDate validates a wire-format date string.
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(DateFormat, s); err != nil {
		return "", fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return Date(s), nil
}

// Today returns the current date in UTC.
func Today() Date {
	return Date(time.Now().UTC().Format(DateFormat))
}

// After reports whether d falls strictly after other.
func (d Date) After(other Date) bool {
	return string(d) > string(other)
}

// Before reports whether d falls strictly before other.
func (d Date) Before(other Date) bool {
	return string(d) < string(other)
}

func (d Date) String() string {
	return string(d)
}
