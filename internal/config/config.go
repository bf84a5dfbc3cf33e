package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/averycrespi/lspnav/internal/results"
	"github.com/averycrespi/lspnav/internal/transport"
	"github.com/averycrespi/lspnav/pkg/project"
	"github.com/averycrespi/lspnav/pkg/types"
	"gopkg.in/yaml.v3"
)

// Default returns the configuration used when no file or flag overrides a value
func Default() types.Config {
	return types.Config{
		ServerCommand:    "gopls",
		ServerArgs:       []string{"serve"},
		WorkspaceRoot:    ".",
		LogLevel:         "info",
		RequestTimeout:   transport.DefaultTimeout,
		SnippetReadLimit: results.DefaultSnippetReadLimit,
	}
}

// DefaultPath returns ~/.config/lspnav/config.yaml, or "" if the home directory is unknown
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", project.Name, "config.yaml")
}

// Load returns the defaults overlaid with the YAML file at path.
// A missing file is not an error; the defaults are used as is.
func Load(path string) (types.Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func loadFile(path string, cfg *types.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("Config file not found, using defaults", "path", path)
			return nil
		}
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	slog.Debug("Loaded config file", "path", path)
	return nil
}

// Validate checks that every field holds a usable value
func Validate(cfg types.Config) error {
	if strings.TrimSpace(cfg.ServerCommand) == "" {
		return errors.New("server_command must not be empty")
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", cfg.RequestTimeout)
	}
	if cfg.RequestTimeout > 10*time.Minute {
		return fmt.Errorf("request_timeout must be at most 10m, got %s", cfg.RequestTimeout)
	}
	if cfg.SnippetReadLimit <= 0 {
		return fmt.Errorf("snippet_read_limit must be positive, got %d", cfg.SnippetReadLimit)
	}
	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel maps a level name to its slog level
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", level)
	}
}
