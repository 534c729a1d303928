// Package tui provides the BubbleTea-based tree inspector.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/popkit/popkit/internal/dump"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeTree Mode = iota
	ModeDetail
	ModeHelp
)

// SnapshotFunc supplies a fresh snapshot on refresh.
type SnapshotFunc func() dump.Snapshot

var (
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("12")).
			Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("12"))
	ownerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	detachedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// row is one visible line of the tree view.
type row struct {
	snap    dump.Snapshot
	depth   int
	logical bool
	// hasChildren counts both visual and logical-only children.
	hasChildren bool
}

// Model is the tree inspector model.
type Model struct {
	snapshot dump.Snapshot
	refresh  SnapshotFunc

	mode Mode

	rows      []row
	cursor    int
	collapsed map[string]bool

	viewport viewport.Model
	help     help.Model
	keys     KeyMap

	width  int
	height int
	ready  bool
}

// New creates a tree inspector over a snapshot. refresh may be nil, in
// which case the refresh key re-renders the captured snapshot.
func New(snapshot dump.Snapshot, refresh SnapshotFunc) Model {
	m := Model{
		snapshot:  snapshot,
		refresh:   refresh,
		mode:      ModeTree,
		collapsed: make(map[string]bool),
		help:      help.New(),
		keys:      DefaultKeyMap(),
	}
	m.rows = m.buildRows()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport = viewport.New(msg.Width, msg.Height-4)
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeTree:
			return m.updateTree(msg)
		case ModeDetail, ModeHelp:
			if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Quit) ||
				key.Matches(msg, m.keys.Enter) {
				m.mode = ModeTree
				return m, nil
			}
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) updateTree(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Home):
		m.cursor = 0

	case key.Matches(msg, m.keys.End):
		m.cursor = len(m.rows) - 1

	case key.Matches(msg, m.keys.Collapse):
		if r, ok := m.currentRow(); ok && r.hasChildren {
			m.collapsed[r.snap.ID] = !m.collapsed[r.snap.ID]
			m.rows = m.buildRows()
			if m.cursor >= len(m.rows) {
				m.cursor = len(m.rows) - 1
			}
		}

	case key.Matches(msg, m.keys.Enter):
		if r, ok := m.currentRow(); ok {
			m.mode = ModeDetail
			m.viewport.SetContent(renderDetail(r.snap))
			m.viewport.GotoTop()
		}

	case key.Matches(msg, m.keys.Refresh):
		if m.refresh != nil {
			m.snapshot = m.refresh()
		}
		m.rows = m.buildRows()
		if m.cursor >= len(m.rows) {
			m.cursor = len(m.rows) - 1
		}

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	switch m.mode {
	case ModeDetail:
		return titleStyle.Render("Element Detail") + "\n" +
			m.viewport.View() + "\n" +
			dimStyle.Render("esc: back • q: quit")
	case ModeHelp:
		return titleStyle.Render("Keys") + "\n\n" +
			m.help.FullHelpView(m.keys.FullHelp()) + "\n\n" +
			dimStyle.Render("esc: back")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("popkit element tree"))
	b.WriteString("\n\n")

	visible := m.visibleWindow()
	for i, r := range m.rows {
		if i < visible.start || i >= visible.end {
			continue
		}
		line := m.renderRow(r)
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d elements • ", len(m.rows))))
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

type window struct{ start, end int }

// visibleWindow keeps the cursor on screen for trees taller than the
// terminal.
func (m Model) visibleWindow() window {
	max := m.height - 6
	if max < 1 || len(m.rows) <= max {
		return window{0, len(m.rows)}
	}
	start := m.cursor - max/2
	if start < 0 {
		start = 0
	}
	end := start + max
	if end > len(m.rows) {
		end = len(m.rows)
		start = end - max
	}
	return window{start, end}
}

func (m Model) renderRow(r row) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", r.depth))

	switch {
	case !r.hasChildren:
		b.WriteString("· ")
	case m.collapsed[r.snap.ID]:
		b.WriteString("▸ ")
	default:
		b.WriteString("▾ ")
	}

	b.WriteString(r.snap.Kind)
	if r.logical {
		b.WriteString(dimStyle.Render(" [logical]"))
	}
	if r.snap.OwnerKind != "" {
		b.WriteString(ownerStyle.Render(" owner=" + r.snap.OwnerKind))
	}
	if !r.snap.Attached {
		b.WriteString(detachedStyle.Render(" detached"))
	}
	if !r.snap.CreatedAt.IsZero() {
		b.WriteString(dimStyle.Render(" " + humanize.Time(r.snap.CreatedAt)))
	}
	return b.String()
}

func (m Model) currentRow() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

// buildRows flattens the snapshot, honoring collapsed subtrees.
func (m Model) buildRows() []row {
	var out []row
	var walk func(s dump.Snapshot, depth int, logical bool)
	walk = func(s dump.Snapshot, depth int, logical bool) {
		out = append(out, row{
			snap:        s,
			depth:       depth,
			logical:     logical,
			hasChildren: len(s.Children)+len(s.LogicalOnly) > 0,
		})
		if m.collapsed[s.ID] {
			return
		}
		for _, child := range s.Children {
			walk(child, depth+1, false)
		}
		for _, child := range s.LogicalOnly {
			walk(child, depth+1, true)
		}
	}
	walk(m.snapshot, 0, false)
	return out
}

func renderDetail(s dump.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Kind:      %s\n", s.Kind)
	fmt.Fprintf(&b, "ID:        %s\n", s.ID)
	fmt.Fprintf(&b, "Attached:  %v\n", s.Attached)
	if s.OwnerKind != "" {
		fmt.Fprintf(&b, "Owner:     %s (%s)\n", s.OwnerKind, s.OwnerID)
	} else {
		b.WriteString("Owner:     none\n")
	}
	if !s.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Created:   %s (%s)\n",
			s.CreatedAt.Format("2006-01-02 15:04:05"), humanize.Time(s.CreatedAt))
	}
	fmt.Fprintf(&b, "Children:  %d visual, %d logical-only\n",
		len(s.Children), len(s.LogicalOnly))
	return b.String()
}
