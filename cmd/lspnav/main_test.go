package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/averycrespi/lspnav/internal/reflist"
	"github.com/averycrespi/lspnav/internal/results"
	"github.com/averycrespi/lspnav/pkg/types"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag of cmd and its parents to its default
func resetFlags(t *testing.T, cmd *cobra.Command) {
	t.Helper()
	t.Cleanup(func() {
		for c := cmd; c != nil; c = c.Parent() {
			for _, fs := range []*pflag.FlagSet{c.Flags(), c.PersistentFlags()} {
				fs.VisitAll(func(f *pflag.Flag) {
					_ = f.Value.Set(f.DefValue)
					f.Changed = false
				})
			}
		}
	})
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected position
		wantErr  bool
	}{
		{
			name:     "separate arguments",
			args:     []string{"calc.go", "16", "22"},
			expected: position{Path: "/work/calc.go", Line: 15, Column: 21},
		},
		{
			name:     "anchor",
			args:     []string{"pkg/calc.go:1:1"},
			expected: position{Path: "/work/pkg/calc.go", Line: 0, Column: 0},
		},
		{
			name:     "absolute path",
			args:     []string{"/other/calc.go", "2", "3"},
			expected: position{Path: "/other/calc.go", Line: 1, Column: 2},
		},
		{
			name:    "zero line",
			args:    []string{"calc.go", "0", "1"},
			wantErr: true,
		},
		{
			name:    "non-numeric column",
			args:    []string{"calc.go", "1", "x"},
			wantErr: true,
		},
		{
			name:    "bad anchor",
			args:    []string{"calc.go:1"},
			wantErr: true,
		},
		{
			name:    "wrong argument count",
			args:    []string{"calc.go", "1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := parsePosition(tt.args, "/work")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, pos)
		})
	}
}

func TestPositionArgs(t *testing.T) {
	assert.NoError(t, positionArgs(refsCmd, []string{"a.go:1:1"}))
	assert.NoError(t, positionArgs(refsCmd, []string{"a.go", "1", "1"}))
	assert.Error(t, positionArgs(refsCmd, nil))
	assert.Error(t, positionArgs(refsCmd, []string{"a.go", "1"}))
}

func TestLoadConfigFlags(t *testing.T) {
	resetFlags(t, refsCmd)
	root := t.TempDir()

	require.NoError(t, refsCmd.ParseFlags([]string{
		"--config", filepath.Join(root, "missing.yaml"),
		"--server", "clangd --background-index",
		"--workspace-root", root,
		"--log-level", "debug",
		"--timeout", "2s",
	}))

	cfg, err := loadConfig(refsCmd)
	require.NoError(t, err)

	assert.Equal(t, "clangd", cfg.ServerCommand)
	assert.Equal(t, []string{"--background-index"}, cfg.ServerArgs)
	assert.Equal(t, root, cfg.WorkspaceRoot)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
}

func TestLoadConfigFileThenFlags(t *testing.T) {
	resetFlags(t, callsCmd)
	root := t.TempDir()
	path := filepath.Join(root, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_command: rust-analyzer\nlog_level: warn\nworkspace_root: "+root+"\n"), 0o644))

	require.NoError(t, callsCmd.ParseFlags([]string{"--config", path, "--log-level", "error"}))

	cfg, err := loadConfig(callsCmd)
	require.NoError(t, err)
	assert.Equal(t, "rust-analyzer", cfg.ServerCommand)
	assert.Equal(t, "error", cfg.LogLevel, "flags override the file")
	assert.Equal(t, root, cfg.WorkspaceRoot)
}

func TestLoadConfigInvalid(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{name: "empty server", args: []string{"--server", " "}},
		{name: "negative timeout", args: []string{"--timeout=-1s"}},
		{name: "unknown log level", args: []string{"--log-level", "loud"}},
		{name: "missing workspace root", args: []string{"--workspace-root", filepath.Join(root, "nope")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t, refsCmd)
			args := append([]string{"--config", filepath.Join(root, "missing.yaml")}, tt.args...)
			require.NoError(t, refsCmd.ParseFlags(args))

			_, err := loadConfig(refsCmd)
			assert.Error(t, err)
		})
	}
}

func TestRefsWithoutServer(t *testing.T) {
	resetFlags(t, refsCmd)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package a\n"), 0o644))

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{
		"refs",
		"--config", filepath.Join(root, "missing.yaml"),
		"--server", "lspnav-no-such-server",
		"--workspace-root", root,
		"a.go", "1", "9",
	})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Equal(t, types.MessageServerMissing, err.Error())
	assert.Empty(t, stdout.String())
}

func TestPrintReferences(t *testing.T) {
	refs := []results.SymbolReference{
		{Path: "/work/calc.go", Line: 15, Column: 21, Snippet: "func (c *Calculator) Add(x float64) float64 {"},
		{Path: "/work/main.go", Line: 13, Column: 16, Snippet: "\tresult := calc.Add(5.0)"},
	}

	tests := []struct {
		name     string
		refs     []results.SymbolReference
		filter   string
		expected string
	}{
		{
			name: "all references",
			refs: refs,
			expected: "calc.go:16:22\tfunc (c *Calculator) Add(x float64) float64 {\n" +
				"main.go:14:17\tresult := calc.Add(5.0)\n" +
				"2 references to Add.\n",
		},
		{
			name:     "filtered",
			refs:     refs,
			filter:   "**/main.go",
			expected: "main.go:14:17\tresult := calc.Add(5.0)\n1 of 2 references to Add.\n",
		},
		{
			name:     "filter hides everything",
			refs:     refs,
			filter:   "*.rs",
			expected: "None of the 2 references to Add match filter \"*.rs\".\n",
		},
		{
			name:     "no references",
			expected: "no references found\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := reflist.FromReferences("Add", tt.refs)
			list.ApplyFilter(tt.filter)

			var b bytes.Buffer
			require.NoError(t, printReferences(&b, list, "/work"))
			assert.Equal(t, tt.expected, b.String())
		})
	}
}

func TestPrintCallHierarchy(t *testing.T) {
	hierarchy := &results.CallHierarchy{
		Root:     &results.CallHierarchyItem{Name: "Add", Path: "/work/calc.go", Line: 15, Column: 21},
		Incoming: []results.CallHierarchyItem{{Name: "main", Path: "/work/main.go", Line: 7, Column: 5}},
		Outgoing: []results.CallHierarchyItem{},
	}
	hierarchy.Candidates = []results.CallHierarchyItem{*hierarchy.Root}

	var text bytes.Buffer
	require.NoError(t, printCallHierarchy(&text, hierarchy, false))
	assert.Equal(t, "Callers:\n  ← main (main.go:8)\n◉ Add (calc.go:16)\n", text.String())

	var dot bytes.Buffer
	require.NoError(t, printCallHierarchy(&dot, hierarchy, true))
	assert.Contains(t, dot.String(), "digraph callgraph {")
	assert.Contains(t, dot.String(), "n1 -> n0;")

	var empty bytes.Buffer
	require.NoError(t, printCallHierarchy(&empty, &results.CallHierarchy{}, false))
	assert.Equal(t, "no symbol with a call hierarchy at this position\n", empty.String())
}
