// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates throughout the app.
const DateLayout = "2006-01-02"

// TimeLayout is the wire format for optional time-of-day values.
const TimeLayout = "15:04"

// ErrInvalidDate reports a string that cannot be parsed as a calendar date.
// It propagates to callers; the core never swallows it.
var ErrInvalidDate = errors.New("invalid date")

// ParseDate parses a yyyy-MM-dd string into a calendar date, represented as
// midnight UTC. Calendar dates are compared as dates, never as instants, so
// the fixed UTC location keeps day arithmetic exact across DST boundaries.
func ParseDate(s string) (time.Time, error) {
	// time.Parse accepts unpadded components; the wire format does not.
	if len(s) != len(DateLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders a calendar date back to yyyy-MM-dd.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidTime reports whether s is a well-formed HH:mm string. The empty
// string is valid: time-of-day is optional. time.Parse tolerates missing
// zero padding, which would break the lexicographic same-day ordering, so
// the shape is checked by hand.
func ValidTime(s string) bool {
	if s == "" {
		return true
	}
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	hour := int(s[0]-'0')*10 + int(s[1]-'0')
	minute := int(s[3]-'0')*10 + int(s[4]-'0')
	return hour < 24 && minute < 60
}

// Today returns the current calendar date as midnight UTC.
func Today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar days from a to b. Both arguments
// must be normalized calendar dates (midnight UTC). Negative when b is
// before a.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}
