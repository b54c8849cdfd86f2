// Package dates provides calendar-day arithmetic for exam planning.
//
// A Day carries no time of day and no zone: two instants on the same calendar
// date map to the same Day, so day offsets are exact integers and unaffected by
// daylight-saving shifts.
package dates

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// Layout is the wire format of a Day.
const Layout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// Day is a calendar date stored as midnight UTC.
type Day struct {
	t time.Time
}

// New returns the Day for the given calendar date. Out-of-range months and
// days are normalized the way time.Date does.
func New(year int, month time.Month, dayOfMonth int) Day {
	return Day{t: time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)}
}

// Of strips the time of day from t, keeping the calendar date in t's location.
func Of(t time.Time) Day {
	y, m, d := t.Date()
	return New(y, m, d)
}

// Today returns the calendar date of now.
func Today(now time.Time) Day {
	return Of(now)
}

// Parse parses a YYYY-MM-DD date.
func Parse(s string) (Day, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return Day{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Of(t), nil
}

// MustParse is like Parse but panics on error. Intended for tests and fixtures.
func MustParse(s string) Day {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsValid reports whether s is a well-formed YYYY-MM-DD date.
func IsValid(s string) bool {
	if s == "" {
		return false
	}
	_, err := Parse(s)
	return err == nil
}

// Time returns the Day as midnight UTC.
func (d Day) Time() time.Time { return d.t }

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool { return d.t.IsZero() }

// String formats d as YYYY-MM-DD, or "" for the zero Day.
func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(Layout)
}

// AddDays returns d shifted by n calendar days.
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// Before reports whether d is strictly earlier than o.
func (d Day) Before(o Day) bool { return d.t.Before(o.t) }

// After reports whether d is strictly later than o.
func (d Day) After(o Day) bool { return d.t.After(o.t) }

// Equal reports whether d and o are the same calendar date.
func (d Day) Equal(o Day) bool { return d.t.Equal(o.t) }

// Between returns the number of whole days from from to to; negative when to
// precedes from.
func Between(from, to Day) int {
	return int((to.t.Unix() - from.t.Unix()) / secondsPerDay)
}

// DaysRemaining returns the days from today until examDate. Past exams yield
// negative values.
func DaysRemaining(examDate, today Day) int {
	return Between(today, examDate)
}

// IsFuture reports whether d falls strictly after today.
func IsFuture(d, today Day) bool {
	return d.After(today)
}

// Sequence returns n consecutive days starting at start.
func Sequence(start Day, n int) []Day {
	if n <= 0 {
		return nil
	}
	out := make([]Day, n)
	for i := range out {
		out[i] = start.AddDays(i)
	}
	return out
}

// MarshalText implements encoding.TextMarshaler.
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty input yields the
// zero Day.
func (d *Day) UnmarshalText(text []byte) error {
	if len(bytes.TrimSpace(text)) == 0 {
		*d = Day{}
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON encodes d as a YYYY-MM-DD string, or null for the zero Day.
func (d Day) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts a YYYY-MM-DD string, an RFC 3339 timestamp, "" or null.
func (d *Day) UnmarshalJSON(data []byte) error {
	s := string(bytes.TrimSpace(data))
	if s == "null" {
		*d = Day{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("parse date %s: expected a string", s)
	}
	s = s[1 : len(s)-1]
	if len(s) > len(Layout) {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("parse date %q: %w", s, err)
		}
		*d = Of(t)
		return nil
	}
	return d.UnmarshalText([]byte(s))
}
