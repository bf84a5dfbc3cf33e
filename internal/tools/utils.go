package tools

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/averycrespi/lspnav/pkg/types"
	"github.com/mark3labs/mcp-go/mcp"
)

// ClientRunner runs fn against a started language server client
type ClientRunner interface {
	WithClient(ctx context.Context, fn func(types.Client) error) error
}

// ResolvePath converts a tool argument to an absolute, clean file path.
// File URIs are accepted; relative paths are resolved against workspaceRoot.
func ResolvePath(filePath string, workspaceRoot string) string {
	filePath = strings.TrimPrefix(filePath, "file://")

	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(workspaceRoot, filePath)
	}

	return filepath.Clean(filePath)
}

// GetPosition extracts a zero-indexed position from the MCP request
func GetPosition(req mcp.CallToolRequest) (line int, character int, err error) {
	line = int(mcp.ParseFloat64(req, "line", 0))
	character = int(mcp.ParseFloat64(req, "character", 0))

	if line < 0 || character < 0 {
		return 0, 0, fmt.Errorf("line and character must not be negative, got %d:%d", line, character)
	}

	return line, character, nil
}
