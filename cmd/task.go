package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/ledger"
	"github.com/etnz/ledger/renderer"
	"github.com/google/subcommands"
)

// taskCmd is a container for task subcommands
type taskCmd struct {
}

func (*taskCmd) Name() string     { return "task" }
func (*taskCmd) Synopsis() string { return "manage the task list" }
func (*taskCmd) Usage() string {
	return `task <subcommand> [args]

Commands:
  list   - List the tasks.
  add    - Add a task.
  status - Change the status of a task.
  rm     - Delete tasks.
`
}

func (c *taskCmd) SetFlags(f *flag.FlagSet) {}
func (c *taskCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return runContainer(ctx, f, c, args...)
}

func (*taskCmd) commands() []subcommands.Command {
	return []subcommands.Command{&taskListCmd{}, &taskAddCmd{}, &taskStatusCmd{}, &taskRmCmd{}}
}

type taskListCmd struct{}

func (*taskListCmd) Name() string     { return "list" }
func (*taskListCmd) Synopsis() string { return "list the tasks" }
func (*taskListCmd) Usage() string {
	return `task list

  Lists the tasks in the order kept by the remote service.
`
}

func (c *taskListCmd) SetFlags(f *flag.FlagSet) {}

func (c *taskListCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := OpenTasks(ctx)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.Tasks(store.Tasks()))
	return subcommands.ExitSuccess
}

type taskAddCmd struct {
	title  string
	memo   string
	due    string
	status string
}

func (*taskAddCmd) Name() string     { return "add" }
func (*taskAddCmd) Synopsis() string { return "add a task" }
func (*taskAddCmd) Usage() string {
	return `task add -t <title> -m <description> -due <date> [-s <status>]

  Adds a task. The status defaults to ONGOING.
`
}

func (c *taskAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.title, "t", "", "Title of the task")
	f.StringVar(&c.memo, "m", "", "Description of the task")
	f.StringVar(&c.due, "due", "", "Due date of the task")
	f.StringVar(&c.status, "s", string(ledger.Ongoing), "Status of the task (ongoing, done, delayed)")
}

func (c *taskAddCmd) draft() (ledger.TaskDraft, error) {
	d := ledger.TaskDraft{Title: c.title, Description: c.memo}
	if c.due != "" {
		day, err := ledger.ParseDate(c.due)
		if err != nil {
			return d, fmt.Errorf("parsing due date: %w", err)
		}
		d.DueDate = day
	}
	status, err := ledger.ParseStatus(c.status)
	if err != nil {
		return d, err
	}
	d.Status = status
	return d.Validate()
}

func (c *taskAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	d, err := c.draft()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	store, err := OpenTasks(ctx)
	if err != nil {
		return fail(err)
	}
	task, err := store.Add(ctx, d)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintln(stdout, renderer.Task(task))
	return subcommands.ExitSuccess
}

type taskStatusCmd struct{}

func (*taskStatusCmd) Name() string     { return "status" }
func (*taskStatusCmd) Synopsis() string { return "change the status of a task" }
func (*taskStatusCmd) Usage() string {
	return `task status <id> <status>

  Sets the status of a task. Any status can follow any other: ongoing, done, delayed.
`
}

func (c *taskStatusCmd) SetFlags(f *flag.FlagSet) {}

func (c *taskStatusCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(stderr, "Error: expecting an id and a status.")
		return subcommands.ExitUsageError
	}
	ids, err := parseIDs(f.Args()[:1])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	status, err := ledger.ParseStatus(f.Arg(1))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	store, err := OpenTasks(ctx)
	if err != nil {
		return fail(err)
	}
	if err := store.Transition(ctx, ids[0], status); err != nil {
		return fail(err)
	}
	fmt.Fprintln(stdout, statusLine(store, ids[0], status))
	return subcommands.ExitSuccess
}

// statusLine describes the task id after its status changed. The task may be
// missing from the local list when it was created after the list was loaded.
func statusLine(store *ledger.TaskStore, id int64, status ledger.Status) string {
	if task, ok := store.Task(id); ok {
		return renderer.Task(task)
	}
	return fmt.Sprintf("Task #%d is now %s.", id, status)
}

type taskRmCmd struct{}

func (*taskRmCmd) Name() string     { return "rm" }
func (*taskRmCmd) Synopsis() string { return "delete tasks" }
func (*taskRmCmd) Usage() string {
	return `task rm <id>...

  Deletes tasks by id.
`
}

func (c *taskRmCmd) SetFlags(f *flag.FlagSet) {}

func (c *taskRmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ids, err := parseIDs(f.Args())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	store, err := OpenTasks(ctx)
	if err != nil {
		return fail(err)
	}
	for _, id := range ids {
		if err := store.Delete(ctx, id); err != nil {
			return fail(err)
		}
		fmt.Fprintf(stdout, "Deleted task #%d.\n", id)
	}
	return subcommands.ExitSuccess
}
