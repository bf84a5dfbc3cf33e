package types

import "time"

// Config represents the configuration for lspnav
type Config struct {
	ServerCommand    string        `yaml:"server_command" json:"server_command,omitempty"`
	ServerArgs       []string      `yaml:"server_args" json:"server_args,omitempty"`
	WorkspaceRoot    string        `yaml:"workspace_root" json:"workspace_root"`
	LogLevel         string        `yaml:"log_level" json:"log_level,omitempty"`
	LogFile          string        `yaml:"log_file" json:"log_file,omitempty"`
	RequestTimeout   time.Duration `yaml:"request_timeout" json:"request_timeout,omitempty"`
	SnippetReadLimit int64         `yaml:"snippet_read_limit" json:"snippet_read_limit,omitempty"`
}
