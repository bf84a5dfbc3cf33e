// Package project holds the identity reported to language servers and MCP clients.
package project

const (
	Name    = "lspnav"
	Version = "0.3.0"
)
