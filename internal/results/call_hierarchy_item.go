package results

import "encoding/json"

// CallHierarchyItem is a symbol returned by a call hierarchy request.
// Line and Column are zero-indexed.
type CallHierarchyItem struct {
	Name    string     `json:"name"`
	Kind    SymbolKind `json:"kind"`
	Path    string     `json:"path"`
	Line    int        `json:"line"`
	Column  int        `json:"column"`
	Snippet string     `json:"snippet"`

	// Raw is the item exactly as the server sent it. Incoming and outgoing
	// call requests must echo it back, including any server-private data.
	Raw json.RawMessage `json:"-"`
}

// CallHierarchy is one symbol together with its direct callers and callees
type CallHierarchy struct {
	Root       *CallHierarchyItem  `json:"root,omitempty"`
	Candidates []CallHierarchyItem `json:"candidates,omitempty"`
	Incoming   []CallHierarchyItem `json:"incoming"`
	Outgoing   []CallHierarchyItem `json:"outgoing"`
}

// Ambiguous reports whether the position resolved to more than one symbol.
// Root is always the first candidate; the others are kept for the caller to inspect.
func (h *CallHierarchy) Ambiguous() bool {
	return len(h.Candidates) > 1
}
