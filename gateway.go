package ledger

import (
	"context"

	"github.com/etnz/ledger/session"
)

// TransactionGateway is the remote persistence of transactions.
//
// Every call is authenticated with the given credential.
type TransactionGateway interface {
	ListTransactions(ctx context.Context, cred session.Credential) ([]Transaction, error)
	CreateTransaction(ctx context.Context, cred session.Credential, d Draft) (Transaction, error)
	DeleteTransaction(ctx context.Context, cred session.Credential, id int64) error
}

// TaskGateway is the remote persistence of tasks.
type TaskGateway interface {
	ListTasks(ctx context.Context, cred session.Credential) ([]Task, error)
	CreateTask(ctx context.Context, cred session.Credential, d TaskDraft) (Task, error)
	UpdateTaskStatus(ctx context.Context, cred session.Credential, id int64, status Status) error
	DeleteTask(ctx context.Context, cred session.Credential, id int64) error
}
