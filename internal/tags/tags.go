// Package tags generates a vi-compatible tags file from the notebook so
// wiki words can be jumped to from an editor.
package tags

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rsaarelm/otlbook/internal/inline"
	"github.com/rsaarelm/otlbook/internal/outline"
)

// PathFunc resolves a page name to the file the tag should point at.
type PathFunc func(page string) (string, bool)

// Build collects tag lines for every wiki word page name and every
// headline that consists of a single wiki word. Page name tags point at
// the start of the file, headline tags carry a search pattern.
func Build(root outline.Document, pathFor PathFunc) []string {
	var lines []string
	for _, page := range root.Sections() {
		name, ok := page.Head().TextContent()
		if !ok {
			continue
		}
		path, ok := pathFor(name)
		if !ok {
			continue
		}
		if inline.IsWikiWord(name) {
			lines = append(lines, fmt.Sprintf("%s\t%s\t0", name, path))
		}
		collect(&lines, page.Body(), path)
	}
	sort.Strings(lines)
	return dedupe(lines)
}

func collect(lines *[]string, doc outline.Document, path string) {
	for _, sec := range doc.Sections() {
		if text, ok := sec.Head().TextContent(); ok && inline.IsWikiWord(text) {
			*lines = append(*lines, fmt.Sprintf("%s\t%s\t/^\\t*%s$/", text, path, text))
		}
		collect(lines, sec.Body(), path)
	}
}

// Write saves tag lines to a tags file at path.
func Write(path string, lines []string) error {
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, line := range sorted {
		if i == 0 || line != sorted[i-1] {
			out = append(out, line)
		}
	}
	return out
}
