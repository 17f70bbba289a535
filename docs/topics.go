// Package docs holds the help topics of srep, embedded as markdown files.
//
// Each topic is a file <name>.md starting with a "# Title" line. readme.md is the index
// and is not a topic itself.
package docs

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed *.md
var files embed.FS

// Index is the name of the topic listing all the others.
const Index = "readme"

// All is the topic name that stands for every topic.
const All = "*"

// Topic is a documentation page.
type Topic struct {
	Name  string
	Title string
}

// Topics returns the topics sorted by name, the index excluded.
func Topics() ([]Topic, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, err
	}
	var topics []Topic
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		if e.IsDir() || name == Index {
			continue
		}
		content, err := Get(name)
		if err != nil {
			return nil, err
		}
		topics = append(topics, Topic{Name: name, Title: title(content)})
	}
	slices.SortFunc(topics, func(a, b Topic) int { return strings.Compare(a.Name, b.Name) })
	return topics, nil
}

// Names returns the names of the topics.
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

// Get returns the markdown content of the named topic.
func Get(name string) (string, error) {
	content, err := files.ReadFile(name + ".md")
	if err != nil {
		return "", fmt.Errorf("unknown topic %q: %w", name, err)
	}
	return string(content), nil
}

// Concat returns the content of the named topics separated by a blank line. All expands to
// every topic.
func Concat(names ...string) (string, error) {
	var expanded []string
	for _, name := range names {
		if name != All {
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
		content, err := Get(name)
		if err != nil {
			return "", err
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(content)
	}
	return b.String(), nil
}

// title returns the text of the first "# " line of content.
func title(content string) string {
	for line := range strings.Lines(content) {
		if t, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(t)
		}
	}
	return ""
}
