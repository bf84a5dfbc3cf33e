package main

import (
	"time"

	"github.com/averycrespi/lspnav/pkg/project"
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath    string
	serverCommand string
	workspaceRoot string
	logLevel      string
	timeout       time.Duration

	filterPattern string
	dotOutput     bool
	browseCalls   bool

	rootCmd = &cobra.Command{
		Use:           project.Name,
		Short:         "Find references and call hierarchies through a language server",
		Version:       project.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Positions are FILE LINE COL or a FILE:LINE:COL anchor, both 1-based.
	refsCmd = &cobra.Command{
		Use:   "refs FILE LINE COL | refs FILE:LINE:COL",
		Short: "List the references to the symbol at a position",
		Args:  positionArgs,
		RunE:  runRefs,
	}

	callsCmd = &cobra.Command{
		Use:   "calls FILE LINE COL | calls FILE:LINE:COL",
		Short: "Show the direct callers and callees of the symbol at a position",
		Args:  positionArgs,
		RunE:  runCalls,
	}

	browseCmd = &cobra.Command{
		Use:   "browse FILE LINE COL | browse FILE:LINE:COL",
		Short: "Browse references or the call hierarchy interactively",
		Args:  positionArgs,
		RunE:  runBrowse,
	}

	mcpCmd = &cobra.Command{
		Use:   "mcp",
		Short: "Serve the reference and call hierarchy tools over MCP stdio",
		Args:  cobra.NoArgs,
		RunE:  runMCP,
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to the YAML config file (default ~/.config/lspnav/config.yaml)")
	flags.StringVar(&serverCommand, "server", "", `Language server command line, e.g. "gopls serve"`)
	flags.StringVar(&workspaceRoot, "workspace-root", "", "Root directory of the workspace (default .)")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.DurationVar(&timeout, "timeout", 0, "Per-request timeout (default 3s)")

	refsCmd.Flags().StringVar(&filterPattern, "filter", "", "Glob over reference paths; prefix with ! to exclude")
	callsCmd.Flags().BoolVar(&dotOutput, "dot", false, "Print a Graphviz DOT graph instead of a text tree")
	browseCmd.Flags().BoolVar(&browseCalls, "calls", false, "Browse the call hierarchy instead of references")

	rootCmd.AddCommand(refsCmd, callsCmd, browseCmd, mcpCmd)
}
