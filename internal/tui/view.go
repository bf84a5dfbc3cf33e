package tui

import (
	"fmt"
	"strings"

	"github.com/averycrespi/lspnav/internal/callgraph"
	"github.com/averycrespi/lspnav/internal/results"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	locationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("237"))

	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	emptyStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("241"))
)

// chromeLines is the number of lines taken by the header and footer
const chromeLines = 4

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	if m.mode == ModeReferences {
		m.renderReferences(&b)
	} else {
		m.renderCalls(&b)
	}
	return b.String()
}

func (m Model) renderReferences(b *strings.Builder) {
	title := fmt.Sprintf("References to %s", m.refs.SymbolName())
	if m.refs.SymbolName() == "" {
		title = "References"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString(" ")
	b.WriteString(statsStyle.Render(fmt.Sprintf("%d/%d", m.refs.VisibleCount(), m.refs.Len())))
	b.WriteString("\n\n")

	if m.refs.VisibleCount() == 0 {
		b.WriteString(emptyStyle.Render("no references found"))
		b.WriteString("\n")
	}

	start, end := m.window(m.refs.Cursor(), m.refs.VisibleCount())
	for i := start; i < end; i++ {
		ref, _ := m.refs.Visible(i)
		loc := results.NewSymbolLocation(ref.Path, m.workspaceRoot, ref.Line, ref.Column)
		row := fmt.Sprintf("%s  %s", locationStyle.Render(loc.ToAnchor().String()), strings.TrimSpace(ref.Snippet))
		b.WriteString(m.renderRow(row, i == m.refs.Cursor()))
	}

	b.WriteString("\n")
	if m.filtering {
		b.WriteString(m.filter.View())
	} else if m.refs.Filter() != "" {
		b.WriteString(statsStyle.Render(fmt.Sprintf("filter: %s  •  / edit  esc clear  enter open  q quit", m.refs.Filter())))
	} else {
		b.WriteString(statsStyle.Render("j/k move  / filter  enter open  q quit"))
	}
	b.WriteString("\n")
}

func (m Model) renderCalls(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Call hierarchy"))
	b.WriteString("\n\n")

	if m.graph.Len() == 0 {
		b.WriteString(emptyStyle.Render("no call hierarchy at this position"))
		b.WriteString("\n")
	} else if m.showDot {
		b.WriteString(m.graph.Dot())
	} else {
		start, end := m.window(m.graph.Cursor(), m.graph.Len())
		for i := start; i < end; i++ {
			node, _ := m.graph.Node(callgraph.NodeID(i))
			loc := results.NewSymbolLocation(node.Item.Path, m.workspaceRoot, node.Item.Line, node.Item.Column)
			row := fmt.Sprintf("%s %s  %s", m.role(callgraph.NodeID(i)), node.Item.Name, locationStyle.Render(loc.ToAnchor().String()))
			b.WriteString(m.renderRow(row, i == m.graph.Cursor()))
		}
	}

	b.WriteString("\n")
	b.WriteString(statsStyle.Render("j/k move  d toggle dot  enter open  q quit"))
	b.WriteString("\n")
}

func (m Model) renderRow(row string, selected bool) string {
	if selected {
		return selectedStyle.Render("> "+row) + "\n"
	}
	return "  " + row + "\n"
}

// window returns the range of rows to draw so the cursor stays on screen
func (m Model) window(cursor, count int) (int, int) {
	rows := m.height - chromeLines
	if m.height == 0 || rows <= 0 || count <= rows {
		return 0, count
	}

	start := cursor - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > count {
		start = count - rows
	}
	return start, start + rows
}
