package results

import (
	"path/filepath"
	"strings"
)

// SymbolLocation represents the location of a symbol for display.
// Unlike SymbolReference, it is relative to the workspace and 1-indexed (not 0-indexed).
type SymbolLocation struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	Character int    `json:"character"`
}

// NewSymbolLocation converts a zero-indexed position in path to display coordinates.
// path is made relative to workspaceRoot when possible.
func NewSymbolLocation(path, workspaceRoot string, line, column int) SymbolLocation {
	return SymbolLocation{
		File:      RelativePath(path, workspaceRoot),
		Line:      line + 1,
		Character: column + 1,
	}
}

// ToAnchor creates a SymbolAnchor from this location (coordinates remain 1-indexed)
func (sl SymbolLocation) ToAnchor() SymbolAnchor {
	return NewSymbolAnchor(sl.File, sl.Line, sl.Character)
}

// RelativePath returns path relative to workspaceRoot, or path unchanged when that
// would leave the workspace or cannot be computed
func RelativePath(path, workspaceRoot string) string {
	if workspaceRoot == "" {
		return path
	}
	rel, err := filepath.Rel(workspaceRoot, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
