// Package docs holds the help topics of fin, embedded as markdown files.
//
// readme.md is the index shown when no topic is asked for. Every other file
// is a topic named after the file, titled by its first heading.
package docs

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed *.md
var files embed.FS

const index = "readme.md"

// ErrUnknownTopic is returned for a topic with no file.
var ErrUnknownTopic = errors.New("unknown topic")

// Topic describes a help topic.
type Topic struct {
	Name  string // Name is the file name without the .md extension.
	Title string // Title is the first heading of the file.
}

// Topics returns the available topics sorted by name.
func Topics() ([]Topic, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, err
	}
	var topics []Topic
	for _, e := range entries {
		if e.IsDir() || e.Name() == index || path.Ext(e.Name()) != ".md" {
			continue
		}
		content, err := files.ReadFile(e.Name())
		if err != nil {
			return nil, err
		}
		topics = append(topics, Topic{
			Name:  strings.TrimSuffix(e.Name(), ".md"),
			Title: title(string(content)),
		})
	}
	slices.SortFunc(topics, func(a, b Topic) int { return strings.Compare(a.Name, b.Name) })
	return topics, nil
}

// Names returns the names of the available topics, sorted.
func Names() ([]string, error) {
	topics, err := Topics()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = t.Name
	}
	return names, nil
}

// Index returns the overview listing the topics.
func Index() (string, error) {
	content, err := files.ReadFile(index)
	return string(content), err
}

// Read returns the content of the named topics, separated by a blank line.
// The name "*" stands for every topic.
func Read(names ...string) (string, error) {
	var expanded []string
	for _, name := range names {
		if name != "*" {
			expanded = append(expanded, name)
			continue
		}
		all, err := Names()
		if err != nil {
			return "", err
		}
		expanded = append(expanded, all...)
	}

	var b strings.Builder
	for i, name := range expanded {
		content, err := files.ReadFile(name + ".md")
		if err != nil || name+".md" == index {
			known, _ := Names()
			return "", fmt.Errorf("%w %q, known topics are %s", ErrUnknownTopic, name, strings.Join(known, ", "))
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.Write(content)
	}
	return b.String(), nil
}

// title returns the text of the first level one heading in md.
func title(md string) string {
	s := bufio.NewScanner(strings.NewReader(md))
	for s.Scan() {
		if h, ok := strings.CutPrefix(s.Text(), "# "); ok {
			return strings.TrimSpace(h)
		}
	}
	return ""
}
