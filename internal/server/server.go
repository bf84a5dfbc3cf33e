package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/averycrespi/lspnav/internal/client"
	"github.com/averycrespi/lspnav/internal/tools"
	"github.com/averycrespi/lspnav/pkg/project"
	"github.com/averycrespi/lspnav/pkg/types"

	"github.com/mark3labs/mcp-go/server"
)

// LspnavServer exposes reference search and call hierarchy as MCP tools over stdio
type LspnavServer struct {
	mcpServer *server.MCPServer
	manager   *client.Manager
	config    types.Config
}

// NewLspnavServer creates a new MCP server. The language server is started on the first tool call.
func NewLspnavServer(config types.Config, manager *client.Manager) *LspnavServer {
	mcpServer := server.NewMCPServer(project.Name, project.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s := &LspnavServer{
		mcpServer: mcpServer,
		manager:   manager,
		config:    config,
	}
	s.registerTools()

	return s
}

func (s *LspnavServer) registerTools() {
	findRefsTool := tools.NewFindReferencesTool(s.manager, s.config)
	s.mcpServer.AddTool(findRefsTool.GetTool(), findRefsTool.Handle)

	callHierarchyTool := tools.NewCallHierarchyTool(s.manager, s.config)
	s.mcpServer.AddTool(callHierarchyTool.GetTool(), callHierarchyTool.Handle)
}

// Start serves MCP over stdio until the client disconnects, then stops the language server
func (s *LspnavServer) Start(ctx context.Context) error {
	slog.Info("Starting MCP server",
		"name", project.Name,
		"version", project.Version,
		"workspace_root", s.config.WorkspaceRoot,
		"server_command", s.config.ServerCommand)

	serveErr := server.ServeStdio(s.mcpServer)

	if err := s.Shutdown(ctx); err != nil {
		slog.Error("Failed to shut down language server", "error", err)
	}

	if serveErr != nil {
		return fmt.Errorf("failed to serve MCP server: %w", serveErr)
	}
	return nil
}

// Shutdown stops the language server if it was started
func (s *LspnavServer) Shutdown(ctx context.Context) error {
	if err := s.manager.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown language server: %w", err)
	}
	return nil
}
