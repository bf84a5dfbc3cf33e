package callgraph

import (
	"fmt"
	"path/filepath"
	"strings"
)

// TextTree renders the root between its callers and callees.
// Lines are shown 1-based; empty sections are omitted.
func (g *Graph) TextTree() string {
	root, ok := g.Root()
	if !ok {
		return ""
	}
	rootNode, _ := g.Node(root)

	var b strings.Builder
	if len(rootNode.Incoming) > 0 {
		b.WriteString("Callers:\n")
		for _, id := range rootNode.Incoming {
			caller, _ := g.Node(id)
			fmt.Fprintf(&b, "  ← %s\n", label(caller))
		}
	}

	fmt.Fprintf(&b, "◉ %s\n", label(rootNode))

	if len(rootNode.Outgoing) > 0 {
		b.WriteString("Callees:\n")
		for _, id := range rootNode.Outgoing {
			callee, _ := g.Node(id)
			fmt.Fprintf(&b, "  → %s\n", label(callee))
		}
	}

	return b.String()
}

// Dot renders the graph in Graphviz DOT for external layout
func (g *Graph) Dot() string {
	var b strings.Builder
	b.WriteString("digraph callgraph {\n")
	b.WriteString("  rankdir=LR;\n")

	for i, node := range g.nodes {
		fmt.Fprintf(&b, "  n%d [shape=box, label=\"%s\\n%s:%d\"];\n",
			i, escapeDot(node.Item.Name), escapeDot(filepath.Base(node.Item.Path)), node.Item.Line+1)
	}
	for i, node := range g.nodes {
		for _, to := range node.Outgoing {
			fmt.Fprintf(&b, "  n%d -> n%d;\n", i, to)
		}
	}

	b.WriteString("}\n")
	return b.String()
}

func label(n Node) string {
	return fmt.Sprintf("%s (%s:%d)", n.Item.Name, filepath.Base(n.Item.Path), n.Item.Line+1)
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeDot(s string) string {
	return dotEscaper.Replace(s)
}
