package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/averycrespi/lspnav/internal/callgraph"
	"github.com/averycrespi/lspnav/internal/client"
	"github.com/averycrespi/lspnav/internal/results"
	"github.com/averycrespi/lspnav/internal/server"
	"github.com/averycrespi/lspnav/internal/tools"
	"github.com/averycrespi/lspnav/internal/tui"
	"github.com/averycrespi/lspnav/pkg/types"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func runRefs(cmd *cobra.Command, args []string) error {
	cfg, pos, closeLog, err := setup(cmd, args, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	manager := client.NewManager(cfg)
	defer shutdown(manager)

	list, err := tools.QueryReferences(cmd.Context(), manager, pos.Path, pos.Line, pos.Column, cfg.SnippetReadLimit)
	if err != nil {
		return userError(err)
	}
	list.ApplyFilter(filterPattern)

	return printReferences(cmd.OutOrStdout(), list, cfg.WorkspaceRoot)
}

func runCalls(cmd *cobra.Command, args []string) error {
	cfg, pos, closeLog, err := setup(cmd, args, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	manager := client.NewManager(cfg)
	defer shutdown(manager)

	hierarchy, err := tools.QueryCallHierarchy(cmd.Context(), manager, pos.Path, pos.Line, pos.Column)
	if err != nil {
		return userError(err)
	}

	return printCallHierarchy(cmd.OutOrStdout(), hierarchy, dotOutput)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	// The terminal belongs to the TUI, so logs go to the log file or nowhere.
	cfg, pos, closeLog, err := setup(cmd, args, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	manager := client.NewManager(cfg)
	defer shutdown(manager)

	var model tui.Model
	if browseCalls {
		hierarchy, err := tools.QueryCallHierarchy(cmd.Context(), manager, pos.Path, pos.Line, pos.Column)
		if err != nil {
			return userError(err)
		}
		model = tui.NewCallsModel(callgraph.FromHierarchy(hierarchy), cfg.WorkspaceRoot)
	} else {
		list, err := tools.QueryReferences(cmd.Context(), manager, pos.Path, pos.Line, pos.Column, cfg.SnippetReadLimit)
		if err != nil {
			return userError(err)
		}
		model = tui.NewReferencesModel(list, cfg.WorkspaceRoot)
	}

	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	if err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}

	if m, ok := final.(tui.Model); ok {
		if sel, ok := m.Selected(); ok {
			loc := results.NewSymbolLocation(sel.Path, cfg.WorkspaceRoot, sel.Line, sel.Column)
			fmt.Fprintln(cmd.OutOrStdout(), loc.ToAnchor())
		}
	}
	return nil
}

func runMCP(cmd *cobra.Command, args []string) error {
	// Stdout carries the MCP protocol, so logs go to stderr.
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	manager := client.NewManager(cfg)
	return server.NewLspnavServer(cfg, manager).Start(cmd.Context())
}

// setup loads the config, installs the logger and parses the position arguments
func setup(cmd *cobra.Command, args []string, logOutput io.Writer) (types.Config, position, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cfg, position{}, nil, err
	}

	pos, err := parsePosition(args, cfg.WorkspaceRoot)
	if err != nil {
		return cfg, position{}, nil, err
	}

	closeLog, err := setupLogging(cfg, logOutput)
	if err != nil {
		return cfg, position{}, nil, err
	}

	return cfg, pos, closeLog, nil
}

func shutdown(manager *client.Manager) {
	if err := manager.Shutdown(context.Background()); err != nil {
		slog.Debug("Failed to shut down language server", "error", err)
	}
}

// userError replaces query errors with the message shown to the user
func userError(err error) error {
	slog.Error("Query failed", "error", err)
	return errors.New(types.UserMessage(err))
}
