// Package renderer renders ledger views as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/ledger"
)

//go:embed templates/*.md
var templates embed.FS

// DefaultCurrency is used when no currency is given.
const DefaultCurrency = "USD"

// Transactions renders a list of transactions, with the number of hidden ones
// and the balance. Ids are shown so they can be passed to a delete command.
func Transactions(title string, txs []ledger.Transaction, more int, balance ledger.Amount, currency string) string {
	v := newTransactionList(txs, currency)
	v.Title = title
	v.ShowID = true
	v.More = more
	v.Balance = balance.Format(orDefault(currency))
	partials := map[string]string{
		"transactions_table": "transactions_table.md",
	}
	return renderTemplate("transactions", "transactions.md", partials, v)
}

// Balance renders the income and expense totals and the balance of txs.
func Balance(txs []ledger.Transaction, currency string) string {
	income, expense := ledger.Totals(txs)
	currency = orDefault(currency)
	v := totals{
		Income:  income.Format(currency),
		Expense: expense.Format(currency),
		Balance: ledger.Balance(txs).Format(currency),
	}
	return renderTemplate("balance", "balance.md", nil, v)
}

// Tasks renders the task list.
func Tasks(tasks []ledger.Task) string {
	return renderTemplate("tasks", "tasks.md", nil, newTaskList(tasks))
}

// Users renders the accounts listed to administrators.
func Users(users []ledger.User) string {
	return renderTemplate("users", "users.md", nil, newUserList(users))
}

// Report renders a finalized report.
func Report(r ledger.Report, currency string) string {
	currency = orDefault(currency)
	v := report{
		Generated:    r.Generated.String(),
		Username:     plain(r.Username),
		Transactions: newTransactionList(r.Transactions, currency),
		Totals: totals{
			Income:  r.Income.Format(currency),
			Expense: r.Expense.Format(currency),
			Balance: r.Balance.Format(currency),
		},
	}
	partials := map[string]string{
		"balance":            "balance.md",
		"transactions_table": "transactions_table.md",
	}
	return renderTemplate("report", "report.md", partials, v)
}

func orDefault(currency string) string {
	if currency == "" {
		return DefaultCurrency
	}
	return currency
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
