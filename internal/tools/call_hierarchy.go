package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/averycrespi/lspnav/internal/callgraph"
	"github.com/averycrespi/lspnav/internal/results"
	"github.com/averycrespi/lspnav/pkg/types"

	"github.com/mark3labs/mcp-go/mcp"
)

// NoCallHierarchyMessage is reported when the position has no call hierarchy
const NoCallHierarchyMessage = "no symbol with a call hierarchy at this position"

// CallHierarchyTool handles call hierarchy requests
type CallHierarchyTool struct {
	runner ClientRunner
	config types.Config
}

// NewCallHierarchyTool creates a new call hierarchy tool
func NewCallHierarchyTool(runner ClientRunner, config types.Config) *CallHierarchyTool {
	return &CallHierarchyTool{
		runner: runner,
		config: config,
	}
}

// GetTool returns the MCP tool definition
func (t *CallHierarchyTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolCallHierarchy,
		mcp.WithDescription("Show the direct callers and callees of the symbol at a position as a text tree, a Graphviz DOT graph or JSON"),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Path to the file, absolute or relative to the workspace root")),
		mcp.WithNumber("line", mcp.Required(), mcp.Description("Line number (0-based)")),
		mcp.WithNumber("character", mcp.Required(), mcp.Description("Character position (0-based)")),
		mcp.WithString("format", mcp.Enum(FormatText, FormatDot, FormatJSON), mcp.Description("Output format (default text)")),
	)
}

// Handle processes the tool request
func (t *CallHierarchyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath := mcp.ParseString(req, "file_path", "")
	if filePath == "" {
		slog.Debug("MCP tool called with missing file_path parameter", "tool", ToolCallHierarchy)
		return mcp.NewToolResultError("file_path parameter is required"), nil
	}

	line, character, err := GetPosition(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	format := mcp.ParseString(req, "format", FormatText)
	switch format {
	case FormatText, FormatDot, FormatJSON:
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q (want text, dot or json)", format)), nil
	}

	path := ResolvePath(filePath, t.config.WorkspaceRoot)
	slog.Debug("MCP tool called",
		"tool", ToolCallHierarchy,
		"path", path,
		"line", line,
		"character", character,
		"format", format)

	hierarchy, err := QueryCallHierarchy(ctx, t.runner, path, line, character)
	if err != nil {
		slog.Error("Failed to get call hierarchy",
			"tool", ToolCallHierarchy,
			"path", path,
			"error", err)
		return mcp.NewToolResultError(types.UserMessage(err)), nil
	}

	graph := callgraph.FromHierarchy(hierarchy)

	switch format {
	case FormatDot:
		if graph.Len() == 0 {
			return mcp.NewToolResultText(NoCallHierarchyMessage), nil
		}
		return mcp.NewToolResultText(graph.Dot()), nil
	case FormatJSON:
		return t.jsonResult(hierarchy, results.CallHierarchyToolArgs{
			FilePath:  filePath,
			Line:      line,
			Character: character,
			Format:    format,
		})
	default:
		if graph.Len() == 0 {
			return mcp.NewToolResultText(NoCallHierarchyMessage), nil
		}
		return mcp.NewToolResultText(AmbiguityNote(hierarchy) + graph.TextTree()), nil
	}
}

func (t *CallHierarchyTool) jsonResult(hierarchy *results.CallHierarchy, args results.CallHierarchyToolArgs) (*mcp.CallToolResult, error) {
	toolResult := results.CallHierarchyToolResult{
		Arguments: args,
		Ambiguous: hierarchy.Ambiguous(),
		Callers:   make([]results.CallHierarchyEntry, 0, len(hierarchy.Incoming)),
		Callees:   make([]results.CallHierarchyEntry, 0, len(hierarchy.Outgoing)),
	}

	if hierarchy.Root == nil {
		toolResult.Message = NoCallHierarchyMessage
	} else {
		root := results.NewCallHierarchyEntry(*hierarchy.Root, t.config.WorkspaceRoot)
		toolResult.Root = &root
		toolResult.Message = fmt.Sprintf("%s has %d callers and %d callees.", root.Name, len(hierarchy.Incoming), len(hierarchy.Outgoing))
	}
	if hierarchy.Ambiguous() {
		for _, candidate := range hierarchy.Candidates {
			toolResult.Candidates = append(toolResult.Candidates, results.NewCallHierarchyEntry(candidate, t.config.WorkspaceRoot))
		}
	}
	for _, caller := range hierarchy.Incoming {
		toolResult.Callers = append(toolResult.Callers, results.NewCallHierarchyEntry(caller, t.config.WorkspaceRoot))
	}
	for _, callee := range hierarchy.Outgoing {
		toolResult.Callees = append(toolResult.Callees, results.NewCallHierarchyEntry(callee, t.config.WorkspaceRoot))
	}

	jsonBytes, err := json.MarshalIndent(toolResult, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal tool result", "tool", ToolCallHierarchy, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal tool result into JSON: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// AmbiguityNote names the other candidates when the position resolved to several symbols
func AmbiguityNote(hierarchy *results.CallHierarchy) string {
	if !hierarchy.Ambiguous() {
		return ""
	}
	names := make([]string, 0, len(hierarchy.Candidates))
	for _, candidate := range hierarchy.Candidates {
		names = append(names, candidate.Name)
	}
	return fmt.Sprintf("Ambiguous position: %d candidates (%s); showing the first.\n", len(names), strings.Join(names, ", "))
}
