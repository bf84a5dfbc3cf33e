package tools

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name          string
		filePath      string
		workspaceRoot string
		expected      string
	}{
		{
			name:          "Absolute path",
			filePath:      "/home/user/project/main.go",
			workspaceRoot: "/home/user/project",
			expected:      "/home/user/project/main.go",
		},
		{
			name:          "Relative path",
			filePath:      "src/main.go",
			workspaceRoot: "/home/user/project",
			expected:      "/home/user/project/src/main.go",
		},
		{
			name:          "File URI",
			filePath:      "file:///home/user/project/main.go",
			workspaceRoot: "/home/user/project",
			expected:      "/home/user/project/main.go",
		},
		{
			name:          "Current directory relative",
			filePath:      "./main.go",
			workspaceRoot: "/home/user/project",
			expected:      "/home/user/project/main.go",
		},
		{
			name:          "Parent directory relative",
			filePath:      "../main.go",
			workspaceRoot: "/home/user/project",
			expected:      "/home/user/main.go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolvePath(tt.filePath, tt.workspaceRoot))
		})
	}
}

func TestGetPosition(t *testing.T) {
	tests := []struct {
		name         string
		arguments    map[string]any
		expectedLine int
		expectedChar int
		expectError  bool
	}{
		{
			name:         "Valid position",
			arguments:    map[string]any{"line": float64(10), "character": float64(5)},
			expectedLine: 10,
			expectedChar: 5,
		},
		{
			name:      "Missing arguments defaults to zero",
			arguments: map[string]any{},
		},
		{
			name:         "Partial arguments",
			arguments:    map[string]any{"line": float64(5)},
			expectedLine: 5,
		},
		{
			name:        "Negative line",
			arguments:   map[string]any{"line": float64(-1), "character": float64(0)},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := mcp.CallToolRequest{}
			request.Params.Arguments = tt.arguments

			line, character, err := GetPosition(request)

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedLine, line)
			assert.Equal(t, tt.expectedChar, character)
		})
	}
}
