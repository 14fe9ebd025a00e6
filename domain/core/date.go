package core

import (
	"fmt"
	"time"
)

// Date represents a calendar day with no time-of-day component.
// All assimilation bookkeeping is keyed by calendar date, not timestamp.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate creates a Date from year, month, day
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf truncates a time.Time to its calendar date in UTC
func DateOf(t time.Time) Date {
	u := t.UTC()
	return Date{Year: u.Year(), Month: u.Month(), Day: u.Day()}
}

// ParseDate parses a date in ISO 8601 form (2006-01-02)
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of the date
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero checks if the date is unset
func (d Date) IsZero() bool {
	return d == Date{}
}

// Next returns the following calendar day
func (d Date) Next() Date {
	return DateOf(d.Time().AddDate(0, 0, 1))
}

// Prev returns the preceding calendar day
func (d Date) Prev() Date {
	return DateOf(d.Time().AddDate(0, 0, -1))
}

// AddDays returns the date n calendar days later (earlier for negative n)
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Before returns true if d is before u
func (d Date) Before(u Date) bool {
	return d.Time().Before(u.Time())
}

// After returns true if d is after u
func (d Date) After(u Date) bool {
	return d.Time().After(u.Time())
}

// DaysSince returns the number of whole days from u to d.
// Negative when d precedes u.
func (d Date) DaysSince(u Date) int {
	return int(d.Time().Sub(u.Time()) / (24 * time.Hour))
}

// String returns the ISO 8601 representation
func (d Date) String() string {
	return d.Time().Format("2006-01-02")
}

// MarshalJSON encodes the date as an ISO 8601 string
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes an ISO 8601 date string
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date JSON: %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
