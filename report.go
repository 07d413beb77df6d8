package ledger

import "slices"

// Report is a finalized, read-only export of a ledger.
type Report struct {
	Generated    Date          // Generated is the day the report was produced.
	Username     string        // Username is the display name of the owner, if known.
	Transactions []Transaction // Transactions are newest first.
	Income       Amount        // Income is the sum of all incomes.
	Expense      Amount        // Expense is the sum of all expenses.
	Balance      Amount        // Balance is Income - Expense.
}

// NewReport builds a report from a snapshot. The report owns a copy of the transactions.
func NewReport(s Snapshot, generated Date, username string) Report {
	income, expense := Totals(s.Transactions)
	return Report{
		Generated:    generated,
		Username:     username,
		Transactions: slices.Clone(s.Transactions),
		Income:       income,
		Expense:      expense,
		Balance:      s.Balance,
	}
}
