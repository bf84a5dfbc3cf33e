package main

import (
	"fmt"
	"strconv"

	"github.com/averycrespi/lspnav/internal/results"
	"github.com/averycrespi/lspnav/internal/tools"
	"github.com/spf13/cobra"
)

// position is a zero-indexed location in an absolute file path
type position struct {
	Path   string
	Line   int
	Column int
}

func positionArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 1 && len(args) != 3 {
		return fmt.Errorf("expected FILE LINE COL or FILE:LINE:COL, got %d arguments", len(args))
	}
	return nil
}

// parsePosition parses 1-based FILE LINE COL arguments or a FILE:LINE:COL anchor.
// Relative files are resolved against workspaceRoot.
func parsePosition(args []string, workspaceRoot string) (position, error) {
	var (
		file         string
		line, column int
	)

	switch len(args) {
	case 1:
		var err error
		file, line, column, err = results.SymbolAnchor(args[0]).Parse()
		if err != nil {
			return position{}, err
		}
	case 3:
		file = args[0]
		var err error
		if line, err = strconv.Atoi(args[1]); err != nil {
			return position{}, fmt.Errorf("invalid line %q: %w", args[1], err)
		}
		if column, err = strconv.Atoi(args[2]); err != nil {
			return position{}, fmt.Errorf("invalid column %q: %w", args[2], err)
		}
	default:
		return position{}, fmt.Errorf("expected FILE LINE COL or FILE:LINE:COL, got %d arguments", len(args))
	}

	if line < 1 || column < 1 {
		return position{}, fmt.Errorf("line and column are 1-based, got %d:%d", line, column)
	}

	return position{
		Path:   tools.ResolvePath(file, workspaceRoot),
		Line:   line - 1,
		Column: column - 1,
	}, nil
}
