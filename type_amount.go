package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Amount is an exact decimal value in the ledger currency major unit.
//
// Transactions always carry a positive Amount, the direction being given by
// their Kind. Balances and totals can be negative.
type Amount struct {
	value decimal.Decimal
}

// A returns an Amount from a numeric constant.
func A[T float64 | int | int64 | decimal.Decimal](value T) Amount {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return Amount{value: v}
	case float64:
		return Amount{value: decimal.NewFromFloat(v)}
	case int:
		return Amount{value: decimal.NewFromInt(int64(v))}
	case int64:
		return Amount{value: decimal.NewFromInt(v)}
	default:
		panic("unsupported type")
	}
}

// ParseAmount parses a decimal amount like "100.00" or "12.5".
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, errors.New("amount is missing")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{value: d}, nil
}

func (a Amount) Decimal() decimal.Decimal  { return a.value }
func (a Amount) IsZero() bool              { return a.value.IsZero() }
func (a Amount) IsPositive() bool          { return a.value.IsPositive() }
func (a Amount) IsNegative() bool          { return a.value.IsNegative() }
func (a Amount) Equal(b Amount) bool       { return a.value.Equal(b.value) }
func (a Amount) Cmp(b Amount) int          { return a.value.Cmp(b.value) }
func (a Amount) Add(b Amount) Amount       { return Amount{value: a.value.Add(b.value)} }
func (a Amount) Sub(b Amount) Amount       { return Amount{value: a.value.Sub(b.value)} }
func (a Amount) Neg() Amount               { return Amount{value: a.value.Neg()} }
func (a Amount) Abs() Amount               { return Amount{value: a.value.Abs()} }
func (a Amount) LessThan(b Amount) bool    { return a.value.LessThan(b.value) }
func (a Amount) GreaterThan(b Amount) bool { return a.value.GreaterThan(b.value) }

// String returns the plain decimal with two digits, e.g. "350.00".
func (a Amount) String() string { return a.value.StringFixed(2) }

// Format returns the amount formatted for the given ISO currency code, e.g. "$1,350.00".
func (a Amount) Format(currency string) string {
	// to get a never nil currency I need to call the Money constructor
	cur := *money.New(0, currency).Currency()
	minor := a.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}

// SignedFormat is like Format but always shows the sign, e.g. "+$100.00".
// 0 is represented as a "-".
func (a Amount) SignedFormat(currency string) string {
	if a.value.IsZero() {
		return "-"
	}
	if a.value.IsPositive() {
		return "+" + a.Format(currency)
	}
	return a.Format(currency)
}

// MarshalJSON writes the amount as a JSON number, keeping every digit.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.value.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		*a = Amount{}
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	a.value = d
	return nil
}
