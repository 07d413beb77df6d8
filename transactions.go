package ledger

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind gives the direction of a transaction.
type Kind string

// Transaction kinds, spelled the way the remote service does.
const (
	Income  Kind = "INCOME"
	Expense Kind = "EXPENSE"
)

// Kinds lists all valid kinds.
var Kinds = []Kind{Income, Expense}

// ParseKind parses a kind, case insensitive.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToUpper(strings.TrimSpace(s))); k {
	case Income, Expense:
		return k, nil
	default:
		return "", fmt.Errorf("unknown transaction kind %q, want one of %v", s, Kinds)
	}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool { return k == Income || k == Expense }

// Transaction is an immutable ledger entry, as confirmed by the remote store.
type Transaction struct {
	ID          int64  `json:"id"`          // ID is assigned by the remote store.
	Amount      Amount `json:"amount"`      // Amount is always positive.
	Kind        Kind   `json:"type"`        // Kind carries the sign.
	Date        Date   `json:"date"`        // Date is the day the transaction occurred.
	Description string `json:"description"` // Description is a free text label.
}

// check returns an error wrapping ErrInvalidEntry unless t has a positive
// amount and a known kind.
func (t Transaction) check() error {
	if !t.Amount.IsPositive() || !t.Kind.Valid() {
		return fmt.Errorf("transaction %d of %v with type %q: %w", t.ID, t.Amount, t.Kind, ErrInvalidEntry)
	}
	return nil
}

// Signed returns the amount with the sign implied by the kind: positive for
// income, negative for expense.
func (t Transaction) Signed() Amount {
	if t.Kind == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Equal reports whether t and o hold the same values.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID && t.Amount.Equal(o.Amount) && t.Kind == o.Kind && t.Date == o.Date && t.Description == o.Description
}

// Draft is a transaction not yet sent to the remote store.
type Draft struct {
	Amount      Amount
	Kind        Kind
	Date        Date
	Description string
}

// NewDraft creates a new Draft.
func NewDraft(day Date, kind Kind, amount Amount, description string) Draft {
	return Draft{Amount: amount, Kind: kind, Date: day, Description: description}
}

// Validate checks the draft and returns a copy with quick fixes applied: a
// missing date defaults to today. The error, if any, is a *ValidationError
// listing every offending field.
func (d Draft) Validate() (Draft, error) {
	var fields []string
	if !d.Amount.IsPositive() {
		fields = append(fields, "amount")
	}
	if !d.Kind.Valid() {
		fields = append(fields, "type")
	}
	d.Description = strings.TrimSpace(d.Description)
	if d.Description == "" {
		fields = append(fields, "description")
	}
	if len(fields) > 0 {
		return d, &ValidationError{Op: "add transaction", Fields: fields}
	}
	if d.Date.IsZero() {
		d.Date = Today()
	}
	return d, nil
}

// MarshalJSON writes the draft the way the remote store expects a creation request.
func (d Draft) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("amount", d.Amount)
	w.Append("type", d.Kind)
	w.Append("date", d.Date)
	w.Append("description", d.Description)
	return w.MarshalJSON()
}

var _ json.Marshaler = Draft{}
