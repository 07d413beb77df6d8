// Package ledger is the client side state of a personal finance tracker.
//
// It keeps the authoritative in-memory view of a user's transactions and
// tasks, synchronized with a remote service through a gateway:
//   - Transactions: income and expense entries, kept newest first, with a
//     derived balance that always equals the sum of the entries.
//   - Tasks: an independent to-do list with a free status transition
//     between ongoing, done and delayed.
//   - Derived views: filtering by day and kind, the most recent entries, and
//     a finalized report for export.
//
// Every mutation is confirm-then-commit: the collection changes only after the
// gateway accepted the call, and a failed call leaves the store untouched.
// Stores never execute without a session credential, see package session.
//
// This package serves as the foundational logic for the `fin` command-line
// tool.
package ledger
