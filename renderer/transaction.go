package renderer

import (
	"fmt"

	"github.com/etnz/ledger"
)

// Transaction renders a transaction to a one line string.
func Transaction(tx ledger.Transaction, currency string) string {
	currency = orDefault(currency)
	switch tx.Kind {
	case ledger.Income:
		return fmt.Sprintf("#%d: received %s on %s for %s", tx.ID, tx.Amount.Format(currency), tx.Date, plain(tx.Description))
	case ledger.Expense:
		return fmt.Sprintf("#%d: spent %s on %s for %s", tx.ID, tx.Amount.Format(currency), tx.Date, plain(tx.Description))
	default:
		return fmt.Sprintf("#%d: %s %s on %s for %s", tx.ID, tx.Kind, tx.Amount.Format(currency), tx.Date, plain(tx.Description))
	}
}

// Task renders a task to a one line string.
func Task(t ledger.Task) string {
	return fmt.Sprintf("#%d: %s (%s, due %s)", t.ID, plain(t.Title), t.Status, t.DueDate)
}
