package renderer

import (
	"strconv"

	"github.com/etnz/ledger"
)

// transactionRow is a transaction with every cell already formatted.
type transactionRow struct {
	ID          string
	Date        string
	Description string
	Kind        string
	Amount      string // Amount is signed, e.g. "-$30.00".
}

type transactionList struct {
	Title   string
	ShowID  bool
	Rows    []transactionRow
	More    int
	Balance string
}

func newTransactionList(txs []ledger.Transaction, currency string) transactionList {
	currency = orDefault(currency)
	var v transactionList
	for _, tx := range txs {
		v.Rows = append(v.Rows, transactionRow{
			ID:          strconv.FormatInt(tx.ID, 10),
			Date:        tx.Date.String(),
			Description: sanitize(tx.Description),
			Kind:        kindLabel(tx.Kind),
			Amount:      tx.Signed().SignedFormat(currency),
		})
	}
	return v
}

func kindLabel(k ledger.Kind) string {
	switch k {
	case ledger.Income:
		return "Income"
	case ledger.Expense:
		return "Expense"
	default:
		return string(k)
	}
}

type totals struct {
	Income  string
	Expense string
	Balance string
}

type report struct {
	Generated    string
	Username     string
	Totals       totals
	Transactions transactionList
}

type taskRow struct {
	ID          string
	Title       string
	Description string
	DueDate     string
	Status      string
}

type taskList struct {
	Rows []taskRow
}

func newTaskList(tasks []ledger.Task) taskList {
	var v taskList
	for _, t := range tasks {
		v.Rows = append(v.Rows, taskRow{
			ID:          strconv.FormatInt(t.ID, 10),
			Title:       sanitize(t.Title),
			Description: sanitize(t.Description),
			DueDate:     t.DueDate.String(),
			Status:      string(t.Status),
		})
	}
	return v
}

type userRow struct {
	ID    string
	Name  string
	Email string
}

type userList struct {
	Rows []userRow
}

func newUserList(users []ledger.User) userList {
	var v userList
	for _, u := range users {
		v.Rows = append(v.Rows, userRow{
			ID:    strconv.FormatInt(u.ID, 10),
			Name:  sanitize(u.Name),
			Email: sanitize(u.Email),
		})
	}
	return v
}
