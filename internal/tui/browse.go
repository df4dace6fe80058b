// Package tui implements the interactive notebook browser.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rsaarelm/otlbook/internal/outline"
	"github.com/rsaarelm/otlbook/internal/store"
	"github.com/rsaarelm/otlbook/internal/vault"
	"github.com/rsaarelm/otlbook/styles"
)

var (
	titleStyle = styles.TitleStyle
	labelStyle = styles.DimStyle
	helpStyle  = styles.HelpStyle
	errorStyle = styles.ErrorStyle
	tableStyle = styles.TableStyle
)

// PageInfo is one row of the page table.
type PageInfo struct {
	Name    string
	Lines   int
	Changed bool
}

// PreviewMsg is sent when a page preview or diff is ready
type PreviewMsg struct {
	Content string
	Err     error
}

// SavedMsg is sent after changed pages were written to disk
type SavedMsg struct {
	Written int
	Err     error
}

type browseModel struct {
	table       table.Model
	viewport    viewport.Model
	st          *store.Store
	v           *vault.Vault
	pages       []PageInfo
	err         error
	showingPage bool
	current     string
	status      string
	width       int
	height      int
}

// InitBrowseModel creates a notebook browser over the store. The vault
// may be nil, in which case saving is disabled.
func InitBrowseModel(st *store.Store, v *vault.Vault) browseModel {
	columns := []table.Column{
		{Title: "Page", Width: 40},
		{Title: "Lines", Width: 8},
		{Title: "Changed", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		BorderBottom(true).
		Bold(false)
	ts.Selected = styles.SelectedStyle.Bold(false)
	t.SetStyles(ts)

	vp := viewport.New(100, 20)
	vp.Style = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		Padding(1)

	m := browseModel{
		table:    t,
		viewport: vp,
		st:       st,
		v:        v,
	}
	m.reload()
	return m
}

// reload rebuilds the page rows from the store.
func (m *browseModel) reload() {
	changed := make(map[string]bool)
	for _, name := range m.st.Changed() {
		changed[name] = true
	}

	m.pages = m.pages[:0]
	rows := []table.Row{}
	for _, sec := range m.st.Root().Sections() {
		name, ok := sec.Head().TextContent()
		if !ok {
			continue
		}
		info := PageInfo{Name: name, Lines: sec.Body().Count(), Changed: changed[name]}
		m.pages = append(m.pages, info)

		mark := ""
		if info.Changed {
			mark = "*"
		}
		rows = append(rows, table.Row{name, fmt.Sprintf("%d", info.Lines), mark})
	}
	m.table.SetRows(rows)
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(msg.Height - 10)
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 6

	case tea.KeyMsg:
		if m.showingPage {
			switch msg.String() {
			case "q", "esc":
				m.showingPage = false
				return m, nil
			case "up", "k", "down", "j":
				m.viewport, cmd = m.viewport.Update(msg)
				return m, cmd
			}
		} else {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "up", "k", "down", "j":
				m.table, cmd = m.table.Update(msg)
				return m, cmd
			case "enter":
				if info, ok := m.selected(); ok {
					m.current = info.Name
					m.showingPage = true
					return m, m.loadPreview(info.Name)
				}
				return m, nil
			case "d":
				if info, ok := m.selected(); ok && info.Changed {
					m.current = info.Name
					m.showingPage = true
					return m, m.loadDiff(info.Name)
				}
				return m, nil
			case "s":
				if m.v != nil {
					return m, m.saveChanged()
				}
				return m, nil
			}
		}

	case PreviewMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.viewport.SetContent(msg.Content)
		m.viewport.GotoTop()
		return m, nil

	case SavedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.status = fmt.Sprintf("saved %d page(s)", msg.Written)
		m.reload()
		return m, nil
	}

	return m, nil
}

func (m browseModel) selected() (PageInfo, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.pages) {
		return PageInfo{}, false
	}
	return m.pages[i], true
}

// loadPreview shows the page's plain text source.
func (m browseModel) loadPreview(name string) tea.Cmd {
	return func() tea.Msg {
		body, ok := m.st.Page(name)
		if !ok {
			return PreviewMsg{Err: fmt.Errorf("page %s not found", name)}
		}
		return PreviewMsg{Content: outline.Print(body)}
	}
}

// loadDiff shows pending changes against the saved snapshot.
func (m browseModel) loadDiff(name string) tea.Cmd {
	return func() tea.Msg {
		rendered, err := m.st.RenderedDiff(name)
		if err != nil {
			return PreviewMsg{Err: err}
		}
		if rendered == "" {
			rendered = "no pending changes"
		}
		return PreviewMsg{Content: rendered}
	}
}

func (m browseModel) saveChanged() tea.Cmd {
	return func() tea.Msg {
		written, err := m.v.Save(m.st)
		return SavedMsg{Written: written, Err: err}
	}
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("otlbook"))
	b.WriteString("\n\n")

	if m.err != nil {
		return errorStyle.Render("✗ Error: "+m.err.Error()) + "\n"
	}

	if m.showingPage {
		b.WriteString(labelStyle.Render(m.current))
		b.WriteString("\n\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("↑/k up • ↓/j down • esc/q back"))
		b.WriteString("\n")
	} else {
		b.WriteString(labelStyle.Render(fmt.Sprintf("Pages: %d", len(m.pages))))
		if m.status != "" {
			b.WriteString("  " + labelStyle.Render(m.status))
		}
		b.WriteString("\n\n")
		b.WriteString(tableStyle.Render(m.table.View()))
		b.WriteString("\n\n")
		if m.v != nil {
			b.WriteString(helpStyle.Render("↑/k up • ↓/j down • enter view • d diff • s save • q quit"))
		} else {
			b.WriteString(helpStyle.Render("↑/k up • ↓/j down • enter view • d diff • q quit"))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RunBrowse starts the interactive browser.
func RunBrowse(st *store.Store, v *vault.Vault) error {
	p := tea.NewProgram(InitBrowseModel(st, v), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
