package ledger

// DefaultRecent is the number of entries shown in a recent view.
const DefaultRecent = 8

// Filter selects transactions. A zero field matches everything.
type Filter struct {
	Date Date // Date matches the calendar day exactly.
	Kind Kind
}

// Match reports whether tx satisfies every criterion of f.
func (f Filter) Match(tx Transaction) bool {
	if !f.Date.IsZero() && tx.Date != f.Date {
		return false
	}
	if f.Kind != "" && tx.Kind != f.Kind {
		return false
	}
	return true
}

// Select returns the transactions matching f, in their original order.
func Select(txs []Transaction, f Filter) []Transaction {
	selected := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Match(tx) {
			selected = append(selected, tx)
		}
	}
	return selected
}

// Recent returns the first n transactions and the number of remaining ones.
// The input is expected newest first, as kept by TransactionStore.
func Recent(txs []Transaction, n int) (head []Transaction, more int) {
	if n < 0 {
		n = 0
	}
	if n > len(txs) {
		n = len(txs)
	}
	head = make([]Transaction, n)
	copy(head, txs[:n])
	return head, len(txs) - n
}
