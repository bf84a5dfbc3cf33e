package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/averycrespi/lspnav/internal/config"
	"github.com/averycrespi/lspnav/pkg/types"
	"github.com/spf13/cobra"
)

// loadConfig layers the config file and then any flags set on the command line over the defaults
func loadConfig(cmd *cobra.Command) (types.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if err := applyFlags(cmd, &cfg); err != nil {
		return cfg, err
	}

	if err := config.Validate(cfg); err != nil {
		return cfg, fmt.Errorf("invalid flags: %w", err)
	}

	root, err := filepath.Abs(cfg.WorkspaceRoot)
	if err != nil {
		return cfg, fmt.Errorf("failed to resolve workspace root %s: %w", cfg.WorkspaceRoot, err)
	}
	if stat, err := os.Stat(root); err != nil || !stat.IsDir() {
		return cfg, fmt.Errorf("invalid workspace root: %s", root)
	}
	cfg.WorkspaceRoot = root

	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *types.Config) error {
	flags := cmd.Flags()

	if flags.Changed("server") {
		fields := strings.Fields(serverCommand)
		if len(fields) == 0 {
			return fmt.Errorf("--server must not be empty")
		}
		cfg.ServerCommand = fields[0]
		cfg.ServerArgs = fields[1:]
	}
	if flags.Changed("workspace-root") {
		cfg.WorkspaceRoot = workspaceRoot
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = timeout
	}

	return nil
}
