package results

// FindReferencesToolArgs echoes the arguments of the find references tool
type FindReferencesToolArgs struct {
	FilePath  string `json:"file_path"`
	Line      int    `json:"line"`
	Character int    `json:"character"`
	Filter    string `json:"filter,omitempty"`
}

// FindReferencesToolResult represents the result of the find references tool
type FindReferencesToolResult struct {
	Arguments  FindReferencesToolArgs `json:"arguments"`
	Symbol     string                 `json:"symbol"`
	Total      int                    `json:"total"`
	Message    string                 `json:"message"`
	References []ReferenceEntry       `json:"references"`
}

// ReferenceEntry is one visible reference in a tool result
type ReferenceEntry struct {
	Location SymbolLocation `json:"location"`
	Anchor   SymbolAnchor   `json:"anchor"`
	Snippet  string         `json:"snippet"`
}

// CallHierarchyToolArgs echoes the arguments of the call hierarchy tool
type CallHierarchyToolArgs struct {
	FilePath  string `json:"file_path"`
	Line      int    `json:"line"`
	Character int    `json:"character"`
	Format    string `json:"format"`
}

// CallHierarchyToolResult represents the JSON result of the call hierarchy tool
type CallHierarchyToolResult struct {
	Arguments  CallHierarchyToolArgs `json:"arguments"`
	Message    string                `json:"message"`
	Ambiguous  bool                  `json:"ambiguous"`
	Root       *CallHierarchyEntry   `json:"root,omitempty"`
	Candidates []CallHierarchyEntry  `json:"candidates,omitempty"`
	Callers    []CallHierarchyEntry  `json:"callers"`
	Callees    []CallHierarchyEntry  `json:"callees"`
}

// CallHierarchyEntry is one symbol in a call hierarchy tool result
type CallHierarchyEntry struct {
	Name     string         `json:"name"`
	Kind     SymbolKind     `json:"kind"`
	Location SymbolLocation `json:"location"`
	Anchor   SymbolAnchor   `json:"anchor"`
	Snippet  string         `json:"snippet,omitempty"`
}

// NewCallHierarchyEntry converts an item to display form relative to workspaceRoot
func NewCallHierarchyEntry(item CallHierarchyItem, workspaceRoot string) CallHierarchyEntry {
	loc := NewSymbolLocation(item.Path, workspaceRoot, item.Line, item.Column)
	return CallHierarchyEntry{
		Name:     item.Name,
		Kind:     item.Kind,
		Location: loc,
		Anchor:   loc.ToAnchor(),
		Snippet:  item.Snippet,
	}
}
