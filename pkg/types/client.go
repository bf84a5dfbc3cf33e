package types

import (
	"context"

	"github.com/averycrespi/lspnav/internal/results"
)

// Client defines the language server client interface
type Client interface {
	Start(ctx context.Context, rootPath string) error
	Stop(ctx context.Context) error

	DidOpen(ctx context.Context, path string, content string) error
	DidClose(ctx context.Context, path string) error
	FindReferences(ctx context.Context, path string, line, column int) ([]results.SymbolReference, error)
	PrepareCallHierarchy(ctx context.Context, path string, line, column int) ([]results.CallHierarchyItem, error)
	GetIncomingCalls(ctx context.Context, path string, line, column int) ([]results.CallHierarchyItem, error)
	GetOutgoingCalls(ctx context.Context, path string, line, column int) ([]results.CallHierarchyItem, error)
	CallHierarchy(ctx context.Context, path string, line, column int) (*results.CallHierarchy, error)
}
