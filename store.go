package ledger

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/etnz/ledger/session"
)

// Snapshot is a consistent view of a TransactionStore: the transactions,
// newest first, and the balance derived from exactly those transactions.
type Snapshot struct {
	Transactions []Transaction
	Balance      Amount
}

// newSnapshot derives the balance of txs. txs is owned by the snapshot.
func newSnapshot(txs []Transaction) Snapshot {
	return Snapshot{Transactions: txs, Balance: Balance(txs)}
}

// TransactionStore is the single source of truth for the transactions of the
// signed in user and their balance.
//
// Mutations are applied only once the gateway confirmed them, in a single
// critical section, so readers never observe a half applied mutation.
// Concurrent mutations are not serialized against each other: each one is
// committed when its response arrives.
type TransactionStore struct {
	gateway TransactionGateway
	session session.Provider
	pending atomic.Int32

	mu   sync.RWMutex
	snap Snapshot
}

// NewTransactionStore creates an empty store.
func NewTransactionStore(gateway TransactionGateway, sessions session.Provider) *TransactionStore {
	return &TransactionStore{gateway: gateway, session: sessions, snap: newSnapshot(nil)}
}

// Snapshot returns a copy of the current state.
func (s *TransactionStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Transactions: slices.Clone(s.snap.Transactions), Balance: s.snap.Balance}
}

// Transactions returns a copy of the transactions, newest first.
func (s *TransactionStore) Transactions() []Transaction { return s.Snapshot().Transactions }

// Balance returns the balance of the current transactions.
func (s *TransactionStore) Balance() Amount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Balance
}

// Len returns the number of transactions.
func (s *TransactionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snap.Transactions)
}

// Select returns the transactions matching f, newest first.
func (s *TransactionStore) Select(f Filter) []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Select(s.snap.Transactions, f)
}

// Recent returns the n newest transactions and how many are left out.
func (s *TransactionStore) Recent(n int) ([]Transaction, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Recent(s.snap.Transactions, n)
}

// Pending returns the number of gateway calls in flight.
func (s *TransactionStore) Pending() int { return int(s.pending.Load()) }

// SortNewestFirst sorts txs by date, newest first. Transactions on the same
// day keep their relative order.
func SortNewestFirst(txs []Transaction) {
	slices.SortStableFunc(txs, func(a, b Transaction) int { return b.Date.Compare(a.Date) })
}

// Load replaces the whole collection with the remote one, sorted newest
// first. Transactions on the same day keep the order they were received in.
//
// On failure, including an entry with a non positive amount or an unknown
// type, the previous state is kept and a *FetchError is returned.
func (s *TransactionStore) Load(ctx context.Context) ([]Transaction, error) {
	const op = "load transactions"
	cred, err := session.Current(s.session)
	if err != nil {
		return nil, &FetchError{Op: op, Err: err}
	}

	s.pending.Add(1)
	defer s.pending.Add(-1)
	txs, err := s.gateway.ListTransactions(ctx, cred)
	if err != nil {
		return nil, &FetchError{Op: op, Err: err}
	}
	for _, tx := range txs {
		if err := tx.check(); err != nil {
			return nil, &FetchError{Op: op, Err: err}
		}
	}
	txs = slices.Clone(txs)
	SortNewestFirst(txs)

	s.mu.Lock()
	s.snap = newSnapshot(txs)
	s.mu.Unlock()
	return slices.Clone(txs), nil
}

// Add validates d, creates it remotely and puts the created transaction in
// front of the collection. The collection is not re-sorted, so a backdated
// transaction stays in front until the next Load.
//
// An invalid draft returns a *ValidationError without any network call. A
// gateway failure returns a *MutationError and leaves the store unchanged.
func (s *TransactionStore) Add(ctx context.Context, d Draft) (Transaction, error) {
	const op = "add transaction"
	d, err := d.Validate()
	if err != nil {
		return Transaction{}, err
	}
	cred, err := session.Current(s.session)
	if err != nil {
		return Transaction{}, &MutationError{Op: op, Err: err}
	}

	s.pending.Add(1)
	defer s.pending.Add(-1)
	tx, err := s.gateway.CreateTransaction(ctx, cred, d)
	if err == nil {
		err = tx.check()
	}
	if err != nil {
		return Transaction{}, &MutationError{Op: op, Err: err}
	}

	s.mu.Lock()
	txs := make([]Transaction, 0, len(s.snap.Transactions)+1)
	txs = append(txs, tx)
	txs = append(txs, s.snap.Transactions...)
	s.snap = newSnapshot(txs)
	s.mu.Unlock()
	return tx, nil
}

// Delete removes the transaction remotely, then locally. Deleting an id that
// is not in the collection succeeds as soon as the gateway confirms.
//
// A gateway failure returns a *MutationError and leaves the store unchanged.
func (s *TransactionStore) Delete(ctx context.Context, id int64) error {
	const op = "delete transaction"
	cred, err := session.Current(s.session)
	if err != nil {
		return &MutationError{Op: op, ID: id, Err: err}
	}

	s.pending.Add(1)
	defer s.pending.Add(-1)
	if err := s.gateway.DeleteTransaction(ctx, cred, id); err != nil {
		return &MutationError{Op: op, ID: id, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.ContainsFunc(s.snap.Transactions, func(tx Transaction) bool { return tx.ID == id }) {
		return nil
	}
	txs := slices.DeleteFunc(slices.Clone(s.snap.Transactions), func(tx Transaction) bool { return tx.ID == id })
	s.snap = newSnapshot(txs)
	return nil
}
