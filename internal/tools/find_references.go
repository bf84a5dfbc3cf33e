package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/averycrespi/lspnav/internal/results"
	"github.com/averycrespi/lspnav/pkg/types"

	"github.com/mark3labs/mcp-go/mcp"
)

// FindReferencesTool handles find references requests
type FindReferencesTool struct {
	runner ClientRunner
	config types.Config
}

// NewFindReferencesTool creates a new find references tool
func NewFindReferencesTool(runner ClientRunner, config types.Config) *FindReferencesTool {
	return &FindReferencesTool{
		runner: runner,
		config: config,
	}
}

// GetTool returns the MCP tool definition
func (t *FindReferencesTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolFindReferences,
		mcp.WithDescription("Find all references to the symbol at a position, including its declaration, optionally filtered by a path glob"),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Path to the file, absolute or relative to the workspace root")),
		mcp.WithNumber("line", mcp.Required(), mcp.Description("Line number (0-based)")),
		mcp.WithNumber("character", mcp.Required(), mcp.Description("Character position (0-based)")),
		mcp.WithString("filter", mcp.Description("Glob over reference paths: '*' within a path segment, '**' across segments, leading '!' inverts")),
	)
}

// Handle processes the tool request
func (t *FindReferencesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath := mcp.ParseString(req, "file_path", "")
	if filePath == "" {
		slog.Debug("MCP tool called with missing file_path parameter", "tool", ToolFindReferences)
		return mcp.NewToolResultError("file_path parameter is required"), nil
	}

	line, character, err := GetPosition(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	filter := mcp.ParseString(req, "filter", "")

	path := ResolvePath(filePath, t.config.WorkspaceRoot)
	slog.Debug("MCP tool called",
		"tool", ToolFindReferences,
		"path", path,
		"line", line,
		"character", character,
		"filter", filter)

	list, err := QueryReferences(ctx, t.runner, path, line, character, t.config.SnippetReadLimit)
	if err != nil {
		slog.Error("Failed to find references",
			"tool", ToolFindReferences,
			"path", path,
			"error", err)
		return mcp.NewToolResultError(types.UserMessage(err)), nil
	}
	list.ApplyFilter(filter)

	toolResult := results.FindReferencesToolResult{
		Arguments: results.FindReferencesToolArgs{
			FilePath:  filePath,
			Line:      line,
			Character: character,
			Filter:    filter,
		},
		Symbol:     list.SymbolName(),
		Total:      list.Len(),
		References: make([]results.ReferenceEntry, 0, list.VisibleCount()),
	}

	for i := 0; i < list.VisibleCount(); i++ {
		ref, _ := list.Visible(i)
		loc := results.NewSymbolLocation(ref.Path, t.config.WorkspaceRoot, ref.Line, ref.Column)
		toolResult.References = append(toolResult.References, results.ReferenceEntry{
			Location: loc,
			Anchor:   loc.ToAnchor(),
			Snippet:  ref.Snippet,
		})
	}

	switch {
	case list.Len() == 0:
		toolResult.Message = types.UserMessage(nil)
	case list.VisibleCount() == 0:
		toolResult.Message = fmt.Sprintf("None of the %d references match filter %q.", list.Len(), list.Filter())
	default:
		toolResult.Message = fmt.Sprintf("Found %d references.", list.VisibleCount())
	}

	jsonBytes, err := json.MarshalIndent(toolResult, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal tool result", "tool", ToolFindReferences, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal tool result into JSON: %v", err)), nil
	}

	slog.Debug("MCP tool completed successfully",
		"tool", ToolFindReferences,
		"symbol", toolResult.Symbol,
		"total", toolResult.Total,
		"visible", len(toolResult.References))

	return mcp.NewToolResultText(string(jsonBytes)), nil
}
