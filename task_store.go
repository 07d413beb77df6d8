package ledger

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/etnz/ledger/session"
)

// TaskStore is the single source of truth for the tasks of the signed in
// user. It shares no state with the TransactionStore.
//
// Like TransactionStore, every mutation is committed only after the gateway
// confirmed it.
type TaskStore struct {
	gateway TaskGateway
	session session.Provider
	pending atomic.Int32

	mu    sync.RWMutex
	tasks []Task
}

// NewTaskStore creates an empty store.
func NewTaskStore(gateway TaskGateway, sessions session.Provider) *TaskStore {
	return &TaskStore{gateway: gateway, session: sessions}
}

// Tasks returns a copy of the tasks.
func (s *TaskStore) Tasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks)
}

// Task returns the task with this id.
func (s *TaskStore) Task(id int64) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

// Pending returns the number of gateway calls in flight.
func (s *TaskStore) Pending() int { return int(s.pending.Load()) }

// Load replaces the whole collection with the remote one, in the order received.
//
// On failure the previous state is kept and a *FetchError is returned.
func (s *TaskStore) Load(ctx context.Context) ([]Task, error) {
	const op = "load tasks"
	cred, err := session.Current(s.session)
	if err != nil {
		return nil, &FetchError{Op: op, Err: err}
	}

	s.pending.Add(1)
	defer s.pending.Add(-1)
	tasks, err := s.gateway.ListTasks(ctx, cred)
	if err != nil {
		return nil, &FetchError{Op: op, Err: err}
	}
	for _, t := range tasks {
		if err := t.check(); err != nil {
			return nil, &FetchError{Op: op, Err: err}
		}
	}
	tasks = slices.Clone(tasks)

	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	return slices.Clone(tasks), nil
}

// Add validates d, creates it remotely and puts the created task in front.
//
// An invalid draft returns a *ValidationError without any network call. A
// gateway failure returns a *MutationError and leaves the store unchanged.
func (s *TaskStore) Add(ctx context.Context, d TaskDraft) (Task, error) {
	const op = "add task"
	d, err := d.Validate()
	if err != nil {
		return Task{}, err
	}
	cred, err := session.Current(s.session)
	if err != nil {
		return Task{}, &MutationError{Op: op, Err: err}
	}

	s.pending.Add(1)
	defer s.pending.Add(-1)
	task, err := s.gateway.CreateTask(ctx, cred, d)
	if err == nil {
		err = task.check()
	}
	if err != nil {
		return Task{}, &MutationError{Op: op, Err: err}
	}

	s.mu.Lock()
	tasks := make([]Task, 0, len(s.tasks)+1)
	tasks = append(tasks, task)
	s.tasks = append(tasks, s.tasks...)
	s.mu.Unlock()
	return task, nil
}

// Transition sets the status of a task. Every status is reachable from every
// other one. The collection order is unchanged.
//
// A gateway failure returns a *MutationError and leaves the status unchanged.
func (s *TaskStore) Transition(ctx context.Context, id int64, status Status) error {
	const op = "update task status"
	if !status.Valid() {
		return &ValidationError{Op: op, Fields: []string{"status"}}
	}
	cred, err := session.Current(s.session)
	if err != nil {
		return &MutationError{Op: op, ID: id, Err: err}
	}

	s.pending.Add(1)
	defer s.pending.Add(-1)
	if err := s.gateway.UpdateTaskStatus(ctx, cred, id, status); err != nil {
		return &MutationError{Op: op, ID: id, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
	if i < 0 {
		return nil
	}
	tasks := slices.Clone(s.tasks)
	tasks[i].Status = status
	s.tasks = tasks
	return nil
}

// Delete removes the task remotely, then locally. Deleting an id that is not
// in the collection succeeds as soon as the gateway confirms.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	const op = "delete task"
	cred, err := session.Current(s.session)
	if err != nil {
		return &MutationError{Op: op, ID: id, Err: err}
	}

	s.pending.Add(1)
	defer s.pending.Add(-1)
	if err := s.gateway.DeleteTask(ctx, cred, id); err != nil {
		return &MutationError{Op: op, ID: id, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = slices.DeleteFunc(slices.Clone(s.tasks), func(t Task) bool { return t.ID == id })
	return nil
}
