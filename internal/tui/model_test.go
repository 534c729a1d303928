package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popkit/popkit/internal/dump"
	"github.com/popkit/popkit/internal/widget"
	"github.com/popkit/popkit/internal/windowing"
)

func popupSnapshot(t *testing.T) dump.Snapshot {
	t.Helper()
	p := widget.NewPopup(windowing.NewHeadless(), widget.NewDefaultResolver())
	p.SetChild(widget.NewTextBlock("hello", "world"))
	require.NoError(t, p.Open())
	return dump.Capture(p)
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelBuildsRows(t *testing.T) {
	m := New(popupSnapshot(t), nil)

	// popup, presentation root, presenter, text block
	require.Len(t, m.rows, 4)
	assert.Equal(t, widget.KindPopup, m.rows[0].snap.Kind)
	assert.True(t, m.rows[1].logical, "presentation root hangs off a logical edge")
	assert.Equal(t, 2, m.rows[2].depth)
}

func TestModelCursorMovement(t *testing.T) {
	m := New(popupSnapshot(t), nil)

	updated, _ := m.Update(keyMsg("j"))
	m = updated.(Model)
	assert.Equal(t, 1, m.cursor)

	updated, _ = m.Update(keyMsg("k"))
	m = updated.(Model)
	assert.Equal(t, 0, m.cursor)

	// Up at the top stays put.
	updated, _ = m.Update(keyMsg("k"))
	m = updated.(Model)
	assert.Equal(t, 0, m.cursor)

	updated, _ = m.Update(keyMsg("G"))
	m = updated.(Model)
	assert.Equal(t, len(m.rows)-1, m.cursor)

	updated, _ = m.Update(keyMsg("g"))
	m = updated.(Model)
	assert.Equal(t, 0, m.cursor)
}

func TestModelCollapse(t *testing.T) {
	m := New(popupSnapshot(t), nil)

	updated, _ := m.Update(keyMsg(" "))
	m = updated.(Model)
	require.Len(t, m.rows, 1, "collapsed root hides the subtree")

	updated, _ = m.Update(keyMsg(" "))
	m = updated.(Model)
	assert.Len(t, m.rows, 4)
}

func TestModelRefresh(t *testing.T) {
	p := widget.NewPopup(windowing.NewHeadless(), widget.NewDefaultResolver())
	require.NoError(t, p.Open())

	m := New(dump.Capture(p), func() dump.Snapshot { return dump.Capture(p) })
	require.Len(t, m.rows, 3)

	p.Close()
	updated, _ := m.Update(keyMsg("r"))
	m = updated.(Model)
	assert.Len(t, m.rows, 1, "closed popup loses its presentation subtree")
}

func TestModelDetailMode(t *testing.T) {
	m := New(popupSnapshot(t), nil)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)
	require.True(t, m.ready)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	assert.Equal(t, ModeDetail, m.mode)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	assert.Equal(t, ModeTree, m.mode)
}

func TestModelView(t *testing.T) {
	m := New(popupSnapshot(t), nil)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	view := m.View()
	assert.Contains(t, view, widget.KindPopup)
	assert.Contains(t, view, "owner="+widget.KindPopupRoot)
	assert.Contains(t, view, "[logical]")
}

func TestRenderDetail(t *testing.T) {
	s := popupSnapshot(t)
	out := renderDetail(s.LogicalOnly[0].Children[0])
	assert.Contains(t, out, widget.KindPresenter)
	assert.Contains(t, out, widget.KindPopupRoot)
}
