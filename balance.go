package ledger

// Balance returns the sum of incomes minus the sum of expenses.
// An empty sequence has a zero balance.
func Balance(txs []Transaction) Amount {
	income, expense := Totals(txs)
	return income.Sub(expense)
}

// Totals returns the sum of incomes and the sum of expenses, both positive.
func Totals(txs []Transaction) (income, expense Amount) {
	for _, tx := range txs {
		switch tx.Kind {
		case Income:
			income = income.Add(tx.Amount)
		case Expense:
			expense = expense.Add(tx.Amount)
		}
	}
	return income, expense
}
