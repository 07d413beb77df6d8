package ledger

import "testing"

func TestSelect(t *testing.T) {
	txs := []Transaction{
		tx(5, Expense, 9.99, "2024-02-03", "Lunch"),
		tx(4, Income, 500, "2024-02-03", "Salary"),
		tx(3, Expense, 120, "2024-02-01", "Groceries"),
		tx(2, Income, 20, "2024-01-15", "Refund"),
		tx(1, Expense, 30, "2024-01-15", "Coffee"),
	}

	testCases := []struct {
		name   string
		filter Filter
		want   []Transaction
	}{
		{name: "no criteria", filter: Filter{}, want: txs},
		{name: "income", filter: Filter{Kind: Income}, want: []Transaction{txs[1], txs[3]}},
		{name: "expense", filter: Filter{Kind: Expense}, want: []Transaction{txs[0], txs[2], txs[4]}},
		{name: "day", filter: Filter{Date: NewDate(2024, 2, 3)}, want: []Transaction{txs[0], txs[1]}},
		{name: "day and kind", filter: Filter{Date: NewDate(2024, 1, 15), Kind: Expense}, want: []Transaction{txs[4]}},
		{name: "no match", filter: Filter{Date: NewDate(2023, 12, 31)}, want: []Transaction{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assertTransactions(t, Select(txs, tc.filter), tc.want)
		})
	}
}

func TestSelect_DoesNotAlias(t *testing.T) {
	txs := []Transaction{tx(1, Income, 1, "2024-01-01", "a")}
	got := Select(txs, Filter{})
	got[0].Description = "changed"
	if txs[0].Description != "a" {
		t.Error("Select() result aliases its input")
	}
}

func TestRecent(t *testing.T) {
	var txs []Transaction
	for i := int64(1); i <= 10; i++ {
		txs = append(txs, tx(i, Income, 1, "2024-01-01", "x"))
	}

	testCases := []struct {
		n        int
		wantLen  int
		wantMore int
	}{
		{n: DefaultRecent, wantLen: 8, wantMore: 2},
		{n: 10, wantLen: 10, wantMore: 0},
		{n: 20, wantLen: 10, wantMore: 0},
		{n: 0, wantLen: 0, wantMore: 10},
		{n: -1, wantLen: 0, wantMore: 10},
	}
	for _, tc := range testCases {
		head, more := Recent(txs, tc.n)
		if len(head) != tc.wantLen || more != tc.wantMore {
			t.Errorf("Recent(%d) = %d entries, %d more; want %d, %d", tc.n, len(head), more, tc.wantLen, tc.wantMore)
		}
		for i := range head {
			if head[i].ID != txs[i].ID {
				t.Errorf("Recent(%d)[%d] = %d, want %d", tc.n, i, head[i].ID, txs[i].ID)
			}
		}
	}
}
