package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/rsaarelm/otlbook/internal/logger"
	"github.com/rsaarelm/otlbook/internal/outline"
	"github.com/rsaarelm/otlbook/styles"
)

// fileChange is a pending normalization of one page file.
type fileChange struct {
	page   string
	path   string
	before string
	after  string
}

// pendingChanges lists pages whose on-disk text differs from the
// canonical printed form of their parse.
func pendingChanges() ([]fileChange, error) {
	log := logger.New(os.Stderr)
	_, v, st, err := openNotebook(log)
	if err != nil {
		return nil, err
	}

	var changes []fileChange
	for _, name := range st.PageNames() {
		path, ok := v.Path(name)
		if !ok {
			continue
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		body, _ := st.Page(name)
		printed := outline.Print(body)
		if string(raw) != printed {
			changes = append(changes, fileChange{
				page:   name,
				path:   path,
				before: string(raw),
				after:  printed,
			})
		}
	}
	return changes, nil
}

// Fmt rewrites note files into canonical form.
func Fmt() {
	changes, err := pendingChanges()
	if err != nil {
		fail(err)
	}
	for _, c := range changes {
		if err := os.WriteFile(c.path, []byte(c.after), 0644); err != nil {
			fail(err)
		}
		fmt.Println(styles.SuccessStyle.Render("✓ " + c.page))
	}
	if len(changes) == 0 {
		fmt.Println(styles.DimStyle.Render("all files already canonical"))
	}
}

// Diff previews what Fmt would change without writing anything.
func Diff() {
	changes, err := pendingChanges()
	if err != nil {
		fail(err)
	}
	if len(changes) == 0 {
		fmt.Println(styles.DimStyle.Render("all files already canonical"))
		return
	}

	for _, c := range changes {
		edits := myers.ComputeEdits(span.URIFromPath(c.path), c.before, c.after)
		unified := fmt.Sprint(gotextdiff.ToUnified(c.path, c.path+" (canonical)", c.before, edits))
		fmt.Print(renderDiff(unified))
	}
}

// renderDiff wraps a unified diff in a fenced block and renders it for
// the terminal, falling back to the plain text when rendering fails.
func renderDiff(unified string) string {
	diffMarkdown := fmt.Sprintf("```diff\n%s```\n", unified)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return diffMarkdown
	}
	rendered, err := renderer.Render(diffMarkdown)
	if err != nil {
		return diffMarkdown
	}
	return rendered
}
