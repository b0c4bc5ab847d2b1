package core

import (
	"bytes"
	"errors"
	"strings"
	"time"
)

// DateFormat is the canonical ISO-8601 representation of a Date.
const DateFormat = "2006-01-02"

// readDateFormat is more permissive, it also accepts 2024-3-1.
const readDateFormat = "2006-1-2"

// Date is a calendar date with day granularity, always stored at UTC midnight.
type Date struct {
	time.Time
}

// NewDate creates a new Date from year, month, day. Out of range values are
// normalised the way time.Date does.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// Today returns the current local date.
func Today() Date { return DateOf(time.Now()) }

// ParseDate parses YYYY-MM-DD (single digit month and day are accepted).
func ParseDate(s string) (Date, error) {
	raw := s
	s = strings.TrimSpace(s)
	t, err := time.Parse(readDateFormat, s)
	if err != nil {
		return Date{}, invalid("date", raw, ErrInvalidDate)
	}
	return DateOf(t), nil
}

// MustParseDate is like ParseDate but panics on error. Meant for tests and constants.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err.Error())
	}
	return d
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int { return d.Time.Day() }

// Month returns the month
func (d Date) Month() int { return int(d.Time.Month()) }

// Year returns the year
func (d Date) Year() int { return d.Time.Year() }

// AddDays returns the date n days later (earlier when n is negative).
func (d Date) AddDays(n int) Date { return NewDate(d.Year(), d.Month(), d.Day()+n) }

// Before reports whether d is strictly before x.
func (d Date) Before(x Date) bool { return d.Time.Before(x.Time) }

// After reports whether d is strictly after x.
func (d Date) After(x Date) bool { return d.Time.After(x.Time) }

// Equal reports whether d and x are the same day.
func (d Date) Equal(x Date) bool { return d.Time.Equal(x.Time) }

// Between reports whether d lies in [start, end], both ends included.
func (d Date) Between(start, end Date) bool {
	return !d.Before(start) && !d.After(end)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateFormat)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format(DateFormat) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	// Accept full timestamps as well, as older snapshots stored them.
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		*d = DateOf(t)
		return nil
	}
	v, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}
