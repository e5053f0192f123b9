package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/treesim/internal/config"
	"github.com/ludo-technologies/treesim/internal/version"
)

// runCLI executes the root command with args and returns stdout and stderr
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	defer slog.SetDefault(slog.Default())

	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeGraph(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, version.Short())

	stdout, _, err := runCLI(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version.Short()+"\n", stdout)

	stdout, _, err = runCLI(t, "version", "--json")
	require.NoError(t, err)
	var info version.BuildInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, "treesim", info.Name)
}

func TestCompareCommand(t *testing.T) {
	dir := t.TempDir()
	first := writeGraph(t, dir, "a.json", `{"main": ["a", "b"], "a": [], "b": []}`)
	second := writeGraph(t, dir, "b.json", `{"main": ["x"], "x": []}`)

	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "all metrics",
			args:     []string{"compare", first, second},
			expected: "strict similarity: 0.0000\nLevenshtein distance: 0.6667\nTED: 0.8000\n",
		},
		{
			name:     "metric subset",
			args:     []string{"compare", "--metrics", "TED,strict", first, second},
			expected: "strict similarity: 0.0000\nTED: 0.8000\n",
		},
		{
			name:     "precision and iterative",
			args:     []string{"compare", "-m", "LEV", "--precision", "2", "--iterative", first, second},
			expected: "Levenshtein distance: 0.67\n",
		},
		{
			name:     "csv",
			args:     []string{"compare", "--format", "csv", "-m", "TED", first, second},
			expected: "first,second,TED\n" + first + "," + second + ",0.8000\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runCLI(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, stdout)
		})
	}
}

func TestCompareCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	good := writeGraph(t, dir, "a.json", `{"main": []}`)
	dangling := writeGraph(t, dir, "b.json", `{"main": ["ghost"]}`)

	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{name: "unknown node", args: []string{"compare", good, dangling}, message: "UNKNOWN_NODE"},
		{name: "unknown metric", args: []string{"compare", "-m", "BLEU", good, good}, message: "unknown metric"},
		{name: "bad format", args: []string{"compare", "--format", "html", good, good}, message: "unsupported format"},
		{name: "one argument", args: []string{"compare", good}, message: "accepts 2 arg(s)"},
		{name: "bad log level", args: []string{"--log-level", "loud", "compare", good, good}, message: "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
			assert.Empty(t, stdout)
		})
	}
}

func TestCompareCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	first := writeGraph(t, dir, "a.json", `{"program": ["a"], "a": []}`)
	second := writeGraph(t, dir, "b.json", `{"program": ["b"], "b": []}`)
	cfg := writeGraph(t, dir, "custom.toml", "[compare]\nroot = \"program\"\nmetrics = [\"STRICT\"]\n")

	stdout, _, err := runCLI(t, "compare", "--config", cfg, first, second)
	require.NoError(t, err)
	assert.Equal(t, "strict similarity: 1.0000\n", stdout)

	// An explicit flag beats the file
	stdout, _, err = runCLI(t, "compare", "--config", cfg, "-m", "TED", first, second)
	require.NoError(t, err)
	assert.Equal(t, "TED: 1.0000\n", stdout)
}

func TestCompareCommand_OutputFile(t *testing.T) {
	dir := t.TempDir()
	first := writeGraph(t, dir, "a.json", `{"main": []}`)
	report := filepath.Join(dir, "report.json")

	stdout, stderr, err := runCLI(t, "compare", "--format", "json", "--output", report, first, first)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "JSON report generated")

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"TED": 1`)
}

func TestMatrixCommand(t *testing.T) {
	dir := t.TempDir()
	writeGraph(t, dir, "a.json", `{"main": ["a", "b"], "a": [], "b": []}`)
	writeGraph(t, dir, "b.json", `{"main": ["x"], "x": []}`)
	writeGraph(t, dir, "c.json", `{"main": ["ghost"]}`)

	stdout, _, err := runCLI(t, "matrix", "--no-progress", "--format", "csv", "-m", "TED", dir)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "first,second,TED,error", lines[0])
	assert.Contains(t, stdout, filepath.Join(dir, "a.json")+","+filepath.Join(dir, "b.json")+",0.8000,")
	assert.Equal(t, 3, strings.Count(stdout, "UNKNOWN_NODE"))
}

func TestCanonicalCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeGraph(t, dir, "g.yaml", "main: [a, b]\na: [c]\nb: []\nc: []\n")

	stdout, _, err := runCLI(t, "canonical", path)
	require.NoError(t, err)
	assert.Equal(t, "canonical: ((())())\nsize: 4\nheight: 2\n", stdout)

	stdout, _, err = runCLI(t, "canonical", "--format", "json", "--iterative", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"canonical": "((())())"`)
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", config.ConfigFileName)

	stdout, _, err := runCLI(t, "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Configuration file created")

	loaded, err := config.NewTomlConfigLoader().LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Compare.Root, loaded.Compare.Root)
	assert.Equal(t, config.DefaultConfig().Matrix.IncludePatterns, loaded.Matrix.IncludePatterns)
	assert.True(t, loaded.Matrix.Recursive)

	_, _, err = runCLI(t, "init", "--config", path)
	assert.ErrorContains(t, err, "already exists")

	_, _, err = runCLI(t, "init", "--config", path, "--force")
	assert.NoError(t, err)
}

func TestCommandsDefineFlags(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		flags []string
	}{
		{NewCompareCmd(), []string{"metrics", "root", "first-root", "second-root", "format", "details", "iterative", "timeout", "precision", "output", "config"}},
		{NewMatrixCmd(), []string{"metrics", "root", "include", "exclude", "recursive", "no-progress", "format", "output", "config"}},
		{NewWatchCmd(), []string{"metrics", "root", "format", "config"}},
		{NewCanonicalCmd(), []string{"root", "iterative", "format"}},
		{NewInitCmd(), []string{"force", "config"}},
	}

	for _, tt := range tests {
		for _, name := range tt.flags {
			assert.NotNil(t, tt.cmd.Flags().Lookup(name), "%s --%s", tt.cmd.Name(), name)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "info", "json")
	require.NoError(t, err)
	logger.Info("hello", "k", 1)
	logger.Debug("hidden")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.NotContains(t, buf.String(), "hidden")

	_, err = newLogger(&buf, "info", "xml")
	assert.Error(t, err)
}
