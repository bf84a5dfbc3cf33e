package tui

import (
	"testing"

	"github.com/averycrespi/lspnav/internal/callgraph"
	"github.com/averycrespi/lspnav/internal/reflist"
	"github.com/averycrespi/lspnav/internal/results"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, key := range keys {
		updated, _ := m.Update(key)
		var ok bool
		m, ok = updated.(Model)
		require.True(t, ok)
	}
	return m
}

func sampleList() *reflist.List {
	return reflist.FromReferences("greet", []results.SymbolReference{
		{Path: "/work/greet.go", Line: 2, Column: 5, Snippet: "func greet() {}"},
		{Path: "/work/main.go", Line: 3, Column: 1, Snippet: "\tgreet()"},
		{Path: "/work/greet_test.go", Line: 8, Column: 1, Snippet: "\tgreet()"},
	})
}

func TestReferencesNavigation(t *testing.T) {
	list := sampleList()
	m := NewReferencesModel(list, "/work")

	m = press(t, m, keyRunes("j"), tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, list.Cursor())

	m = press(t, m, keyRunes("j"))
	assert.Equal(t, 2, list.Cursor(), "moving past the end is a no-op")

	m = press(t, m, keyRunes("k"), tea.KeyMsg{Type: tea.KeyUp}, keyRunes("k"))
	assert.Equal(t, 0, list.Cursor())

	assert.Contains(t, m.View(), "References to greet")
	assert.Contains(t, m.View(), "greet.go:3:6")
}

func TestReferencesFilter(t *testing.T) {
	list := sampleList()
	m := NewReferencesModel(list, "/work")

	m = press(t, m, keyRunes("/"))
	require.True(t, m.filtering)

	m = press(t, m, keyRunes("!"), keyRunes("*"), keyRunes("_"), keyRunes("t"), keyRunes("e"), keyRunes("s"), keyRunes("t"), keyRunes("."), keyRunes("g"), keyRunes("o"))
	assert.Equal(t, "!*_test.go", list.Filter())
	assert.Equal(t, 2, list.VisibleCount())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.filtering)
	_, selected := m.Selected()
	assert.False(t, selected, "enter in the filter prompt only closes it")
	assert.Equal(t, 2, list.VisibleCount())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, list.Filter())
	assert.Equal(t, 3, list.VisibleCount())
}

func TestReferencesSelect(t *testing.T) {
	list := sampleList()
	m := NewReferencesModel(list, "/work")

	updated, cmd := m.Update(keyRunes("j"))
	assert.Nil(t, cmd)
	m = updated.(Model)

	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	assert.NotNil(t, cmd)

	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, Selection{Path: "/work/main.go", Line: 3, Column: 1}, sel)
}

func TestReferencesEmpty(t *testing.T) {
	m := NewReferencesModel(reflist.New("nothing"), "/work")

	m = press(t, m, keyRunes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	_, ok := m.Selected()
	assert.False(t, ok)
	assert.Contains(t, m.View(), "no references found")
}

func TestCallsNavigation(t *testing.T) {
	graph := callgraph.New()
	graph.Build(
		results.CallHierarchyItem{Name: "Add", Path: "/work/calc.go", Line: 2, Column: 5},
		[]results.CallHierarchyItem{{Name: "Sum", Path: "/work/sum.go", Line: 4}},
		[]results.CallHierarchyItem{{Name: "check", Path: "/work/check.go", Line: 0}},
	)
	m := NewCallsModel(graph, "/work")

	view := m.View()
	assert.Contains(t, view, "◉ Add")
	assert.Contains(t, view, "← Sum")
	assert.Contains(t, view, "→ check")

	m = press(t, m, keyRunes("j"), keyRunes("j"), keyRunes("j"))
	assert.Equal(t, 2, graph.Cursor())

	m = press(t, m, keyRunes("d"))
	assert.Contains(t, m.View(), "digraph callgraph {")
	m = press(t, m, keyRunes("d"))
	assert.NotContains(t, m.View(), "digraph callgraph {")

	m = press(t, m, keyRunes("/"))
	assert.False(t, m.filtering, "calls mode has no filter")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, Selection{Path: "/work/check.go", Line: 0, Column: 0}, sel)
}

func TestQuit(t *testing.T) {
	m := NewReferencesModel(sampleList(), "/work")

	updated, cmd := m.Update(keyRunes("q"))
	assert.NotNil(t, cmd)
	assert.Empty(t, updated.View())

	_, ok := updated.(Model).Selected()
	assert.False(t, ok)
}

func TestWindow(t *testing.T) {
	m := NewReferencesModel(sampleList(), "/work")

	start, end := m.window(5, 100)
	assert.Equal(t, 0, start)
	assert.Equal(t, 100, end, "no height means draw everything")

	m.height = chromeLines + 10
	start, end = m.window(50, 100)
	assert.Equal(t, 45, start)
	assert.Equal(t, 55, end)

	start, end = m.window(99, 100)
	assert.Equal(t, 90, start)
	assert.Equal(t, 100, end)

	start, end = m.window(0, 5)
	assert.Equal(t, 0, start)
	assert.Equal(t, 5, end)
}
