package tui

import (
	"slices"

	"github.com/averycrespi/lspnav/internal/callgraph"
	"github.com/averycrespi/lspnav/internal/reflist"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Mode selects what the model browses
type Mode int

const (
	// ModeReferences browses a reference list.
	ModeReferences Mode = iota

	// ModeCalls browses a call hierarchy graph.
	ModeCalls
)

// Selection is the position chosen with enter. Line and Column are zero-indexed.
type Selection struct {
	Path   string
	Line   int
	Column int
}

// Model is a bubbletea model over a reference list or a call graph.
// It reads and moves them only through their cursor operations.
type Model struct {
	mode          Mode
	refs          *reflist.List
	graph         *callgraph.Graph
	workspaceRoot string

	filter    textinput.Model
	filtering bool
	showDot   bool

	width  int
	height int

	selected *Selection
	quitting bool
}

// NewReferencesModel creates a model browsing list
func NewReferencesModel(list *reflist.List, workspaceRoot string) Model {
	filter := textinput.New()
	filter.Prompt = "/"
	filter.Placeholder = "glob, e.g. src/** or !*_test.go"

	return Model{
		mode:          ModeReferences,
		refs:          list,
		workspaceRoot: workspaceRoot,
		filter:        filter,
	}
}

// NewCallsModel creates a model browsing graph
func NewCallsModel(graph *callgraph.Graph, workspaceRoot string) Model {
	return Model{
		mode:          ModeCalls,
		graph:         graph,
		workspaceRoot: workspaceRoot,
		filter:        textinput.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}

		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "j", "down":
			m.moveDown()

		case "k", "up":
			m.moveUp()

		case "/":
			if m.mode == ModeReferences {
				m.filtering = true
				m.filter.SetValue(m.refs.Filter())
				m.filter.CursorEnd()
				cmd := m.filter.Focus()
				return m, cmd
			}

		case "esc":
			if m.mode == ModeReferences {
				m.refs.ClearFilter()
				m.filter.SetValue("")
			}

		case "d":
			if m.mode == ModeCalls {
				m.showDot = !m.showDot
			}

		case "enter":
			if sel, ok := m.current(); ok {
				m.selected = &sel
				m.quitting = true
				return m, tea.Quit
			}
		}
	}

	return m, nil
}

// updateFilter edits the filter pattern, applying it as it is typed
func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filtering = false
		m.filter.Blur()
		return m, nil

	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.refs.ClearFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.refs.ApplyFilter(m.filter.Value())
	return m, cmd
}

func (m Model) moveDown() {
	if m.mode == ModeReferences {
		m.refs.MoveDown()
	} else {
		m.graph.MoveDown()
	}
}

func (m Model) moveUp() {
	if m.mode == ModeReferences {
		m.refs.MoveUp()
	} else {
		m.graph.MoveUp()
	}
}

func (m Model) current() (Selection, bool) {
	if m.mode == ModeReferences {
		ref, ok := m.refs.Current()
		if !ok {
			return Selection{}, false
		}
		return Selection{Path: ref.Path, Line: ref.Line, Column: ref.Column}, true
	}

	node, ok := m.graph.Current()
	if !ok {
		return Selection{}, false
	}
	return Selection{Path: node.Item.Path, Line: node.Item.Line, Column: node.Item.Column}, true
}

// Selected returns the position chosen with enter, if any
func (m Model) Selected() (Selection, bool) {
	if m.selected == nil {
		return Selection{}, false
	}
	return *m.selected, true
}

// role reports how node id relates to the root of the graph
func (m Model) role(id callgraph.NodeID) string {
	root, ok := m.graph.Root()
	if !ok {
		return " "
	}
	if id == root {
		return "◉"
	}
	node, _ := m.graph.Node(id)
	if slices.Contains(node.Outgoing, root) {
		return "←"
	}
	return "→"
}
