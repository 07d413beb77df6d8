package gateway

import (
	"context"
	"net/http"

	"github.com/etnz/ledger"
	"github.com/etnz/ledger/session"
)

// The admin routes are read only views of every account. They need a
// credential obtained with AdminLogin, others are rejected with
// ledger.ErrUnauthorized.

// Users lists the accounts.
func (c *Client) Users(ctx context.Context, cred session.Credential) ([]ledger.User, error) {
	var users []ledger.User
	err := c.do(ctx, request{method: http.MethodGet, path: []string{"admin", "users"}, cred: &cred}, &users)
	return users, err
}

// UserTransactions returns the transactions of the account with that email,
// in the order sent by the service.
func (c *Client) UserTransactions(ctx context.Context, cred session.Credential, email string) ([]ledger.Transaction, error) {
	var txs []ledger.Transaction
	err := c.do(ctx, request{method: http.MethodGet, path: []string{"admin", "users", email, "transactions"}, cred: &cred}, &txs)
	return txs, err
}

// UserTasks returns the tasks of the account with that email.
func (c *Client) UserTasks(ctx context.Context, cred session.Credential, email string) ([]ledger.Task, error) {
	var tasks []ledger.Task
	err := c.do(ctx, request{method: http.MethodGet, path: []string{"admin", "users", email, "tasks"}, cred: &cred}, &tasks)
	return tasks, err
}
