package ledger

import (
	"testing"
)

func TestBalance(t *testing.T) {
	testCases := []struct {
		name string
		txs  []Transaction
		want Amount
	}{
		{name: "empty", txs: nil, want: A(0)},
		{
			name: "single income",
			txs:  []Transaction{tx(1, Income, 100.00, "2024-01-01", "Salary")},
			want: A(100),
		},
		{
			name: "mixed",
			txs: []Transaction{
				tx(1, Income, 500.00, "2024-01-01", "Salary"),
				tx(2, Expense, 120.00, "2024-01-02", "Groceries"),
				tx(3, Expense, 30.00, "2024-01-03", "Coffee"),
			},
			want: A(350),
		},
		{
			name: "negative balance",
			txs: []Transaction{
				tx(1, Income, 10.10, "2024-01-01", "Refund"),
				tx(2, Expense, 20.20, "2024-01-02", "Book"),
			},
			want: A(-10.10),
		},
		{
			name: "exact decimals",
			txs: []Transaction{
				tx(1, Income, 0.1, "2024-01-01", "a"),
				tx(2, Income, 0.2, "2024-01-01", "b"),
			},
			want: A(0.3),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Balance(tc.txs); !got.Equal(tc.want) {
				t.Errorf("Balance() = %v, want %v", got, tc.want)
			}
		})
	}
}

// TestBalance_IsIncomeMinusExpense checks the invariant against the totals for orderings of the same input.
func TestBalance_IsIncomeMinusExpense(t *testing.T) {
	txs := []Transaction{
		tx(1, Income, 500, "2024-01-01", "Salary"),
		tx(2, Expense, 120, "2024-01-02", "Groceries"),
		tx(3, Expense, 30, "2024-01-03", "Coffee"),
		tx(4, Income, 12.34, "2024-01-04", "Interest"),
	}
	want := A(0)
	for _, tx := range txs {
		want = want.Add(tx.Signed())
	}
	for i := range txs {
		rotated := append(append([]Transaction(nil), txs[i:]...), txs[:i]...)
		income, expense := Totals(rotated)
		got := Balance(rotated)
		if !got.Equal(want) || !got.Equal(income.Sub(expense)) {
			t.Errorf("rotation %d: Balance() = %v, income-expense = %v, want %v", i, got, income.Sub(expense), want)
		}
	}
}

func TestAmount_Format(t *testing.T) {
	testCases := []struct {
		amount   Amount
		currency string
		want     string
		signed   string
	}{
		{amount: A(100), currency: "USD", want: "$100.00", signed: "+$100.00"},
		{amount: A(-30), currency: "USD", want: "-$30.00", signed: "-$30.00"},
		{amount: A(1234.5), currency: "USD", want: "$1,234.50", signed: "+$1,234.50"},
		{amount: A(0), currency: "USD", want: "$0.00", signed: "-"},
	}
	for _, tc := range testCases {
		if got := tc.amount.Format(tc.currency); got != tc.want {
			t.Errorf("%v.Format(%q) = %q, want %q", tc.amount, tc.currency, got, tc.want)
		}
		if got := tc.amount.SignedFormat(tc.currency); got != tc.signed {
			t.Errorf("%v.SignedFormat(%q) = %q, want %q", tc.amount, tc.currency, got, tc.signed)
		}
	}
}

func TestParseAmount(t *testing.T) {
	if _, err := ParseAmount(""); err == nil {
		t.Error("ParseAmount(\"\") should fail")
	}
	if _, err := ParseAmount("12,5"); err == nil {
		t.Error("ParseAmount(\"12,5\") should fail")
	}
	got, err := ParseAmount(" 100.00 ")
	if err != nil {
		t.Fatalf("ParseAmount() error = %v", err)
	}
	if !got.Equal(A(100)) {
		t.Errorf("ParseAmount() = %v, want 100", got)
	}
	if got.String() != "100.00" {
		t.Errorf("String() = %q, want %q", got.String(), "100.00")
	}
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	for _, in := range []string{`12.5`, `"12.5"`, `"12.50"`} {
		var a Amount
		if err := a.UnmarshalJSON([]byte(in)); err != nil {
			t.Fatalf("UnmarshalJSON(%s) error = %v", in, err)
		}
		if !a.Equal(A(12.5)) {
			t.Errorf("UnmarshalJSON(%s) = %v, want 12.5", in, a)
		}
	}
	var a Amount
	if err := a.UnmarshalJSON([]byte(`"abc"`)); err == nil {
		t.Error("UnmarshalJSON(\"abc\") should fail")
	}
}
