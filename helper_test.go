package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/etnz/ledger/session"
)

// signedIn is a session for tests.
var signedIn = session.Static{Token: "test-token", Username: "ada"}

// errOffline is the failure injected in the fake gateway.
var errOffline = errors.New("connection refused")

// fakeGateway is an in memory TransactionGateway and TaskGateway.
//
// When fail is set, every call fails with it. calls counts the calls per method.
type fakeGateway struct {
	mu     sync.Mutex
	nextID int64
	txs    []Transaction
	tasks  []Task
	fail   error
	calls  map[string]int
	// gate, when not nil, blocks every call until it receives a value.
	gate chan struct{}
	// edit, when not nil, alters created entries before they are returned.
	editTx   func(*Transaction)
	editTask func(*Task)
}

func newFakeGateway(txs ...Transaction) *fakeGateway {
	return &fakeGateway{nextID: 100, txs: txs, calls: make(map[string]int)}
}

func (g *fakeGateway) enter(ctx context.Context, method string, cred session.Credential) error {
	if g.gate != nil {
		select {
		case <-g.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[method]++
	if cred.Token != signedIn.Token {
		return ErrUnauthorized
	}
	return g.fail
}

func (g *fakeGateway) count(method string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[method]
}

func (g *fakeGateway) setFail(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fail = err
}

func (g *fakeGateway) ListTransactions(ctx context.Context, cred session.Credential) ([]Transaction, error) {
	if err := g.enter(ctx, "ListTransactions", cred); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Transaction(nil), g.txs...), nil
}

func (g *fakeGateway) CreateTransaction(ctx context.Context, cred session.Credential, d Draft) (Transaction, error) {
	if err := g.enter(ctx, "CreateTransaction", cred); err != nil {
		return Transaction{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	tx := Transaction{ID: g.nextID, Amount: d.Amount, Kind: d.Kind, Date: d.Date, Description: d.Description}
	if g.editTx != nil {
		g.editTx(&tx)
	}
	g.txs = append(g.txs, tx)
	return tx, nil
}

func (g *fakeGateway) DeleteTransaction(ctx context.Context, cred session.Credential, id int64) error {
	if err := g.enter(ctx, "DeleteTransaction", cred); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, tx := range g.txs {
		if tx.ID == id {
			g.txs = append(g.txs[:i], g.txs[i+1:]...)
			break
		}
	}
	return nil
}

func (g *fakeGateway) ListTasks(ctx context.Context, cred session.Credential) ([]Task, error) {
	if err := g.enter(ctx, "ListTasks", cred); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Task(nil), g.tasks...), nil
}

func (g *fakeGateway) CreateTask(ctx context.Context, cred session.Credential, d TaskDraft) (Task, error) {
	if err := g.enter(ctx, "CreateTask", cred); err != nil {
		return Task{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	task := Task{ID: g.nextID, Title: d.Title, Description: d.Description, DueDate: d.DueDate, Status: d.Status}
	if g.editTask != nil {
		g.editTask(&task)
	}
	g.tasks = append(g.tasks, task)
	return task, nil
}

func (g *fakeGateway) UpdateTaskStatus(ctx context.Context, cred session.Credential, id int64, status Status) error {
	if err := g.enter(ctx, "UpdateTaskStatus", cred); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.tasks {
		if g.tasks[i].ID == id {
			g.tasks[i].Status = status
		}
	}
	return nil
}

func (g *fakeGateway) DeleteTask(ctx context.Context, cred session.Credential, id int64) error {
	if err := g.enter(ctx, "DeleteTask", cred); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, task := range g.tasks {
		if task.ID == id {
			g.tasks = append(g.tasks[:i], g.tasks[i+1:]...)
			break
		}
	}
	return nil
}

// tx is a helper for test to create a transaction from const.
func tx(id int64, kind Kind, amount float64, day string, description string) Transaction {
	d, err := ParseDate(day)
	if err != nil {
		panic(err)
	}
	return Transaction{ID: id, Amount: A(amount), Kind: kind, Date: d, Description: description}
}

// assertTransactions fails t if got and want differ by value.
func assertTransactions(t *testing.T, got, want []Transaction) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d transactions %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("transaction #%d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
