package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/ledger/docs"
	"github.com/google/subcommands"
)

type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `topic [-l] [<topic>...]

  Shows the given topics, or the overview when none is given.
  "*" shows every topic.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "l", false, "List the topics with their title")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var doc string
	var err error
	switch {
	case c.list:
		doc, err = topicList()
	case f.NArg() == 0:
		doc, err = docs.Index()
	default:
		doc, err = docs.Read(f.Args()...)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}

// topicList renders the topics as a markdown table.
func topicList() (string, error) {
	topics, err := docs.Topics()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("| Topic | Title |\n|:---|:---|\n")
	for _, t := range topics {
		fmt.Fprintf(&b, "| %s | %s |\n", t.Name, t.Title)
	}
	return b.String(), nil
}
