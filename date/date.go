// Package date implements a calendar day with no time of day.
//
// Ledger entries and task due dates are compared by day only, so a Date is
// deliberately not a time.Time.
package date

import (
	"encoding/json"
	"fmt"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02" // write date format

// Date represents a date with day-level granularity.
type Date struct {
	y int
	m time.Month
	d int
}

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Of returns the calendar day of t in t's own location.
func Of(t time.Time) Date { return New(t.Date()) }

// Today returns the current date.
func Today() Date { return Of(time.Now()) }

// IsZero reports whether d is the zero Date, used as "no date".
func (d Date) IsZero() bool { return d == Date{} }

// Year returns current year.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns current day of the month.
func (d Date) Day() int { return d.d }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Compare returns -1, 0 or +1 depending on whether d is before, the same day as, or after x.
func (d Date) Compare(x Date) int { return d.time().Compare(x.time()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(days int) Date { return New(d.y, d.m, d.d+days) }

// String format the date in its standard format.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.time().Format(DateFormat)
}

// Parse parses a Date from a string. It is lenient and accepts formats like "2025-7-1".
//
// A full RFC 3339 timestamp (or a local "2006-01-02T15:04:05" one) is also
// accepted, and truncated to its calendar day.
func Parse(str string) (Date, error) {
	if on, err := time.Parse(readDateFormat, str); err == nil {
		return Of(on), nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if on, err := time.Parse(layout, str); err == nil {
			return Of(on), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q want format %q", str, DateFormat)
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// UnmarshalJSON implements the json specific way to unmarshall a date from a json string.
// An empty string or null leaves the zero Date.
func (j *Date) UnmarshalJSON(bytes []byte) error {
	var str *string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	if str == nil || *str == "" {
		*j = Date{}
		return nil
	}
	d, err := Parse(*str)
	if err != nil {
		return err
	}
	*j = d
	return nil
}

func (j Date) MarshalJSON() ([]byte, error) {
	str := j.String()
	return json.Marshal(&str)
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
