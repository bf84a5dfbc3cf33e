package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/averycrespi/lspnav/internal/callgraph"
	"github.com/averycrespi/lspnav/internal/reflist"
	"github.com/averycrespi/lspnav/internal/results"
	"github.com/averycrespi/lspnav/internal/tools"
	"github.com/averycrespi/lspnav/pkg/types"
)

// printReferences writes one "FILE:LINE:COL  snippet" line per visible reference, then a summary
func printReferences(w io.Writer, list *reflist.List, workspaceRoot string) error {
	var b strings.Builder

	for i := 0; i < list.VisibleCount(); i++ {
		ref, _ := list.Visible(i)
		loc := results.NewSymbolLocation(ref.Path, workspaceRoot, ref.Line, ref.Column)
		fmt.Fprintf(&b, "%s\t%s\n", loc.ToAnchor(), strings.TrimSpace(ref.Snippet))
	}

	switch {
	case list.Len() == 0:
		b.WriteString(types.UserMessage(nil) + "\n")
	case list.VisibleCount() == 0:
		fmt.Fprintf(&b, "None of the %d references to %s match filter %q.\n", list.Len(), list.SymbolName(), list.Filter())
	case list.Filter() != "":
		fmt.Fprintf(&b, "%d of %d references to %s.\n", list.VisibleCount(), list.Len(), list.SymbolName())
	default:
		fmt.Fprintf(&b, "%d references to %s.\n", list.Len(), list.SymbolName())
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// printCallHierarchy writes the hierarchy as a text tree or a DOT graph
func printCallHierarchy(w io.Writer, hierarchy *results.CallHierarchy, dot bool) error {
	graph := callgraph.FromHierarchy(hierarchy)
	if graph.Len() == 0 {
		_, err := io.WriteString(w, tools.NoCallHierarchyMessage+"\n")
		return err
	}

	if dot {
		_, err := io.WriteString(w, graph.Dot())
		return err
	}

	_, err := io.WriteString(w, tools.AmbiguityNote(hierarchy)+graph.TextTree())
	return err
}
