package tools

// Tool names
const (
	ToolFindReferences = "find_references"
	ToolCallHierarchy  = "call_hierarchy"
)

// Call hierarchy output formats
const (
	FormatText = "text"
	FormatDot  = "dot"
	FormatJSON = "json"
)
