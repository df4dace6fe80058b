// Package store holds the in-memory notebook state as a pair of
// document snapshots, the last saved tree and the current tree, and
// answers which pages changed between them.
package store

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/rsaarelm/otlbook/internal/outline"
)

// Store is a concurrency-safe pair of notebook snapshots. Top-level
// sections of the root document are pages; the headline is the page
// name and the body is the page content.
type Store struct {
	mu      sync.RWMutex
	saved   outline.Document
	current outline.Document
}

// New creates a store with both snapshots set to doc.
func New(doc outline.Document) *Store {
	return &Store{saved: doc, current: doc}
}

// Root returns the current root document.
func (s *Store) Root() outline.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Page returns the body of the named page in the current snapshot.
func (s *Store) Page(name string) (outline.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sec, ok := findPage(s.current, name)
	if !ok {
		return outline.Document{}, false
	}
	return sec.Body(), true
}

// PageNames returns the current page names in document order.
func (s *Store) PageNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pageNames(s.current)
}

// SetPage replaces the body of the named page, creating the page at the
// end of the root document if it does not exist yet.
func (s *Store) SetPage(name string, body outline.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, err := outline.NewSection(outline.Text(name), body)
	if err != nil {
		return err
	}
	for i, kid := range s.current.Sections() {
		if text, ok := kid.Head().TextContent(); ok && text == name {
			doc, err := s.current.Replace(i, sec)
			if err != nil {
				return err
			}
			s.current = doc
			return nil
		}
	}
	doc, err := s.current.Append(sec)
	if err != nil {
		return err
	}
	s.current = doc
	return nil
}

// Changed returns the names of pages that differ between the saved and
// current snapshots, in current document order. Pages deleted from the
// current snapshot are listed after the rest.
func (s *Store) Changed() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var changed []string
	for _, sec := range s.current.Sections() {
		name, ok := sec.Head().TextContent()
		if !ok {
			continue
		}
		old, existed := findPage(s.saved, name)
		if !existed || !old.Equal(sec) {
			changed = append(changed, name)
		}
	}
	for _, sec := range s.saved.Sections() {
		name, ok := sec.Head().TextContent()
		if !ok {
			continue
		}
		if _, still := findPage(s.current, name); !still {
			changed = append(changed, name)
		}
	}
	return changed
}

// Dirty reports whether any page changed since the last commit.
func (s *Store) Dirty() bool {
	return len(s.Changed()) > 0
}

// Commit promotes the current snapshot to saved and returns the page
// names that had pending changes.
func (s *Store) Commit() []string {
	changed := s.Changed()
	s.mu.Lock()
	s.saved = s.current
	s.mu.Unlock()
	return changed
}

// PageDiff returns a unified diff of the named page between the saved
// and current snapshots. Missing pages diff against empty content.
func (s *Store) PageDiff(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var before, after string
	if sec, ok := findPage(s.saved, name); ok {
		before = outline.Print(sec.Body())
	}
	if sec, ok := findPage(s.current, name); ok {
		after = outline.Print(sec.Body())
	}

	file := name + ".otl"
	edits := myers.ComputeEdits(span.URIFromPath(file), before, after)
	return fmt.Sprint(gotextdiff.ToUnified("saved/"+file, "current/"+file, before, edits))
}

// RenderedDiff returns the page diff rendered for the terminal.
func (s *Store) RenderedDiff(name string) (string, error) {
	unified := s.PageDiff(name)
	if unified == "" {
		return "", nil
	}

	// Wrap in a diff code fence so glamour highlights it
	diffMarkdown := fmt.Sprintf("```diff\n%s```\n", unified)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		// Fallback to plain diff if glamour fails
		return diffMarkdown, nil
	}

	rendered, err := renderer.Render(diffMarkdown)
	if err != nil {
		return diffMarkdown, nil
	}
	return rendered, nil
}

func findPage(doc outline.Document, name string) (outline.Section, bool) {
	for _, sec := range doc.Sections() {
		if text, ok := sec.Head().TextContent(); ok && text == name {
			return sec, true
		}
	}
	return outline.Section{}, false
}

func pageNames(doc outline.Document) []string {
	names := make([]string, 0, doc.Len())
	for _, sec := range doc.Sections() {
		if text, ok := sec.Head().TextContent(); ok {
			names = append(names, text)
		}
	}
	return names
}
