package domain

import (
	"fmt"
	"time"
)

// DateFormat is the ISO-8601 layout used to read and print dates
const DateFormat = "2006-01-02"

// Date represents a calendar day with no time-of-day or zone component
// Date values are comparable and can be used as map keys
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns a normalized Date for the given year, month and day
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day of t in t's own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{y, m, d}
}

// Today returns the current local calendar day
func Today() Date { return DateOf(time.Now()) }

// ParseDate parses a date in DateFormat
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// IsZero reports whether d is the zero value
func (d Date) IsZero() bool { return d == Date{} }

// AddDays returns the date n days after d (n may be negative)
func (d Date) AddDays(n int) Date { return DateOf(d.Time().AddDate(0, 0, n)) }

// Before reports whether d is before x
func (d Date) Before(x Date) bool { return d.Time().Before(x.Time()) }

// After reports whether d is after x
func (d Date) After(x Date) bool { return d.Time().After(x.Time()) }

// Time returns midnight UTC of d
func (d Date) Time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

func (d Date) String() string { return d.Time().Format(DateFormat) }
