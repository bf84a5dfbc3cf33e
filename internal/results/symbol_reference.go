package results

// SymbolReference is one resolved reference to a symbol.
// Line and Column are zero-indexed, as reported by the language server.
type SymbolReference struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Snippet string `json:"snippet"`
}
