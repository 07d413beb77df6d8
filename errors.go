package ledger

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnauthorized is reported when the remote store rejects the credential,
	// typically because the token expired.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is reported when the remote store does not know the id.
	ErrNotFound = errors.New("not found")
	// ErrConflict is reported when the remote store already holds the entity,
	// e.g. a registration with a known email.
	ErrConflict = errors.New("already exists")
	// ErrInvalidEntry is reported when the remote store returns an entry
	// breaking the ledger invariants.
	ErrInvalidEntry = errors.New("invalid entry")
)

// ValidationError is a draft rejected locally, before any network call.
type ValidationError struct {
	Op     string   // Op is the rejected operation, e.g. "add transaction".
	Fields []string // Fields are the missing or invalid fields.
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: missing or invalid fields: %s", e.Op, strings.Join(e.Fields, ", "))
}

// FetchError is a failed load. The store kept its previous state.
type FetchError struct {
	Op  string // Op is the failed load, e.g. "load tasks".
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// MutationError is a failed add, delete or transition. The store kept its previous state.
type MutationError struct {
	Op  string // Op is the failed mutation, e.g. "delete transaction".
	ID  int64  // ID is the target, 0 for an add.
	Err error
}

func (e *MutationError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %d: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}
func (e *MutationError) Unwrap() error { return e.Err }
