package callgraph

import (
	"log/slog"

	"github.com/averycrespi/lspnav/internal/results"
)

// NodeID is the position of a node in its graph. IDs stay valid while nodes are appended.
type NodeID int

// Node is one symbol in the graph with the IDs of its direct callers and callees
type Node struct {
	Item     results.CallHierarchyItem
	Incoming []NodeID
	Outgoing []NodeID
}

// Graph is a one-hop call graph around a root symbol with a cursor over its nodes.
// Edges refer to nodes by NodeID and are resolved against the node slice when read.
type Graph struct {
	nodes   []Node
	root    NodeID
	hasRoot bool
	cursor  int
}

// New creates an empty graph
func New() *Graph {
	return &Graph{}
}

// Build replaces the graph with root, its callers and its callees.
// Node 0 is the root, followed by the callers and then the callees in order.
func (g *Graph) Build(root results.CallHierarchyItem, incoming, outgoing []results.CallHierarchyItem) {
	g.nodes = make([]Node, 0, 1+len(incoming)+len(outgoing))
	g.cursor = 0

	g.root = g.addNode(root)
	g.hasRoot = true

	for _, caller := range incoming {
		id := g.addNode(caller)
		g.addEdge(id, g.root)
	}
	for _, callee := range outgoing {
		id := g.addNode(callee)
		g.addEdge(g.root, id)
	}

	slog.Debug("Built call graph", "root", root.Name, "callers", len(incoming), "callees", len(outgoing))
}

// FromHierarchy builds a graph from a call hierarchy result.
// A hierarchy without a root yields an empty graph.
func FromHierarchy(h *results.CallHierarchy) *Graph {
	g := New()
	if h == nil || h.Root == nil {
		return g
	}
	g.Build(*h.Root, h.Incoming, h.Outgoing)
	return g
}

func (g *Graph) addNode(item results.CallHierarchyItem) NodeID {
	g.nodes = append(g.nodes, Node{Item: item})
	return NodeID(len(g.nodes) - 1)
}

func (g *Graph) addEdge(from, to NodeID) {
	g.nodes[from].Outgoing = append(g.nodes[from].Outgoing, to)
	g.nodes[to].Incoming = append(g.nodes[to].Incoming, from)
}

func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node with the given ID
func (g *Graph) Node(id NodeID) (Node, bool) {
	if id < 0 || int(id) >= len(g.nodes) {
		return Node{}, false
	}
	return g.nodes[id], true
}

// Root returns the root ID, or false for an empty graph
func (g *Graph) Root() (NodeID, bool) {
	return g.root, g.hasRoot
}

func (g *Graph) Cursor() int { return g.cursor }

// Current returns the node under the cursor
func (g *Graph) Current() (Node, bool) {
	return g.Node(NodeID(g.cursor))
}

func (g *Graph) MoveUp() {
	if g.cursor > 0 {
		g.cursor--
	}
}

func (g *Graph) MoveDown() {
	if g.cursor+1 < len(g.nodes) {
		g.cursor++
	}
}
