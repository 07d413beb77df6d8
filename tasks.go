package ledger

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the progress of a task. Any status can follow any other.
type Status string

// Task statuses, spelled the way the remote service does.
const (
	Ongoing Status = "ONGOING"
	Done    Status = "DONE"
	Delayed Status = "DELAYED"
)

// Statuses lists all valid statuses.
var Statuses = []Status{Ongoing, Done, Delayed}

// ParseStatus parses a status, case insensitive.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case Ongoing, Done, Delayed:
		return st, nil
	default:
		return "", fmt.Errorf("unknown task status %q, want one of %v", s, Statuses)
	}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool { return s == Ongoing || s == Done || s == Delayed }

// Task is an entry of the task list, as confirmed by the remote store.
type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     Date   `json:"dueDate"`
	Status      Status `json:"status"`
}

// check returns an error wrapping ErrInvalidEntry unless t has a known status.
func (t Task) check() error {
	if !t.Status.Valid() {
		return fmt.Errorf("task %d with status %q: %w", t.ID, t.Status, ErrInvalidEntry)
	}
	return nil
}

// TaskDraft is a task not yet sent to the remote store.
type TaskDraft struct {
	Title       string
	Description string
	DueDate     Date
	Status      Status // Status defaults to Ongoing.
}

// NewTaskDraft creates a new ongoing TaskDraft.
func NewTaskDraft(title, description string, due Date) TaskDraft {
	return TaskDraft{Title: title, Description: description, DueDate: due, Status: Ongoing}
}

// Validate checks the draft and returns a copy with quick fixes applied: a
// missing status defaults to Ongoing.
func (d TaskDraft) Validate() (TaskDraft, error) {
	var fields []string
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		fields = append(fields, "title")
	}
	d.Description = strings.TrimSpace(d.Description)
	if d.Description == "" {
		fields = append(fields, "description")
	}
	if d.DueDate.IsZero() {
		fields = append(fields, "dueDate")
	}
	if d.Status == "" {
		d.Status = Ongoing
	} else if !d.Status.Valid() {
		fields = append(fields, "status")
	}
	if len(fields) > 0 {
		return d, &ValidationError{Op: "add task", Fields: fields}
	}
	return d, nil
}

// MarshalJSON writes the draft the way the remote store expects a creation request.
func (d TaskDraft) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("title", d.Title)
	w.Append("description", d.Description)
	w.Append("dueDate", d.DueDate)
	w.Append("status", d.Status)
	return w.MarshalJSON()
}

var _ json.Marshaler = TaskDraft{}
