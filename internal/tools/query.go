package tools

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/averycrespi/lspnav/internal/reflist"
	"github.com/averycrespi/lspnav/internal/results"
	"github.com/averycrespi/lspnav/pkg/types"
)

// QueryReferences opens path and collects the references to the symbol at line:character.
// The list is named after the identifier under the position and has no filter applied.
func QueryReferences(ctx context.Context, runner ClientRunner, path string, line, character int, snippetLimit int64) (*reflist.List, error) {
	var refs []results.SymbolReference
	err := runner.WithClient(ctx, func(c types.Client) error {
		if err := openDocument(ctx, c, path); err != nil {
			return err
		}
		defer closeDocument(ctx, c, path)

		var err error
		refs, err = c.FindReferences(ctx, path, line, character)
		return err
	})
	if err != nil {
		return nil, err
	}

	symbol := results.SymbolNameAt(results.ReadSnippet(path, line, snippetLimit), character)
	return reflist.FromReferences(symbol, refs), nil
}

// QueryCallHierarchy opens path and resolves the direct callers and callees of the symbol at line:character
func QueryCallHierarchy(ctx context.Context, runner ClientRunner, path string, line, character int) (*results.CallHierarchy, error) {
	var hierarchy *results.CallHierarchy
	err := runner.WithClient(ctx, func(c types.Client) error {
		if err := openDocument(ctx, c, path); err != nil {
			return err
		}
		defer closeDocument(ctx, c, path)

		var err error
		hierarchy, err = c.CallHierarchy(ctx, path, line, character)
		return err
	})
	return hierarchy, err
}

// openDocument announces the current content of path before it is queried
func openDocument(ctx context.Context, c types.Client, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return c.DidOpen(ctx, path, string(content))
}

// closeDocument ends the announcement made by openDocument. The query result
// stands even when the close fails.
func closeDocument(ctx context.Context, c types.Client, path string) {
	if err := c.DidClose(ctx, path); err != nil {
		slog.Debug("Failed to close document", "path", path, "error", err)
	}
}
