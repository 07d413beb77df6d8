package ledger

import "github.com/etnz/ledger/date"

// Date is a calendar day, see package date.
type Date = date.Date

// NewDate returns a normalized Date for the given year, month, and day.
var NewDate = date.New

// ParseDate parses a "YYYY-MM-DD" date.
var ParseDate = date.Parse

// Today returns the current date.
var Today = date.Today
