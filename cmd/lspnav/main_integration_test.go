//go:build integration

package main

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command against the example workspace and returns stdout
func runCLI(t *testing.T, args ...string) string {
	t.Helper()

	if _, err := exec.LookPath("gopls"); err != nil {
		t.Skip("gopls not found in PATH")
	}

	workspaceRoot, err := filepath.Abs(filepath.Join("..", "..", "testdata", "example"))
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{
		"--config", filepath.Join(t.TempDir(), "none.yaml"),
		"--workspace-root", workspaceRoot,
		"--timeout", "30s",
		"--log-level", "debug",
	}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		filterPattern = ""
		dotOutput = false
	})

	err = rootCmd.Execute()
	if err != nil {
		t.Logf("stderr: %s", stderr.String())
	}
	require.NoError(t, err)
	return stdout.String()
}

func TestIntegrationRefs(t *testing.T) {
	// Calculator.Add is declared at calculator.go:16:22 and called from main.go:14.
	out := runCLI(t, "refs", "calculator.go", "16", "22")

	assert.Contains(t, out, "calculator.go:16:22")
	assert.Contains(t, out, "main.go:14:")
	assert.Contains(t, out, "references to Add.")
}

func TestIntegrationRefsAnchorAndFilter(t *testing.T) {
	out := runCLI(t, "refs", "--filter", "!**/calculator.go", "calculator.go:16:22")

	assert.NotContains(t, out, "calculator.go:16:22")
	assert.Contains(t, out, "main.go:14:")
}

func TestIntegrationCalls(t *testing.T) {
	out := runCLI(t, "calls", "calculator.go", "16", "22")

	assert.Contains(t, out, "Callers:")
	assert.Contains(t, out, "← main (main.go:")
	assert.Contains(t, out, "◉ Add (calculator.go:16)")
}

func TestIntegrationCallsDot(t *testing.T) {
	out := runCLI(t, "calls", "--dot", "calculator.go", "16", "22")

	assert.True(t, strings.HasPrefix(out, "digraph callgraph {\n"), out)
	assert.Contains(t, out, "-> n0;")
}
