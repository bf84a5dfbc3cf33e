package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/averycrespi/lspnav/internal/config"
	"github.com/averycrespi/lspnav/pkg/types"
)

// setupLogging installs the default slog logger. Output goes to cfg.LogFile when one is set.
// The returned func closes the log file.
func setupLogging(cfg types.Config, output io.Writer) (func(), error) {
	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	closeFn := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = f
		closeFn = func() { _ = f.Close() }
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level})))
	return closeFn, nil
}
