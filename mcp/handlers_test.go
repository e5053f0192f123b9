package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/treesim/internal/config"
	"github.com/ludo-technologies/treesim/mcp"
)

const (
	twoLeaves = `{"main": ["a", "b"], "a": [], "b": []}`
	oneLeaf   = `{"main": ["x"], "x": []}`
)

type handlerFunc func(*mcp.HandlerSet, context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error)

func writeGraph(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runTool(t *testing.T, cfg *config.Config, arguments interface{}, handler handlerFunc) *mcplib.CallToolResult {
	t.Helper()
	h := mcp.NewHandlerSet(mcp.NewDependencies(cfg, "", nil))

	req := mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{
			Arguments: arguments,
		},
	}

	res, err := handler(h, context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	return res
}

func decode(t *testing.T, res *mcplib.CallToolResult) map[string]interface{} {
	t.Helper()
	require.False(t, res.IsError, mcplib.GetTextFromContent(res.Content[0]))
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(mcplib.GetTextFromContent(res.Content[0])), &result))
	return result
}

func TestHandleCompareTrees(t *testing.T) {
	dir := t.TempDir()
	first := writeGraph(t, dir, "a.json", twoLeaves)
	second := writeGraph(t, dir, "b.yaml", "main: [x]\nx: []\n")

	tests := map[string]struct {
		arguments map[string]interface{}
		scores    map[string]interface{}
	}{
		"paths": {
			arguments: map[string]interface{}{"first_path": first, "second_path": second},
			scores:    map[string]interface{}{"STRICT": 0.0, "LEV": 2.0 / 3.0, "TED": 0.8},
		},
		"inline graphs": {
			arguments: map[string]interface{}{"first_graph": twoLeaves, "second_graph": oneLeaf, "metrics": []interface{}{"TED"}},
			scores:    map[string]interface{}{"TED": 0.8},
		},
		"inline yaml against a path": {
			arguments: map[string]interface{}{
				"first_graph":  "program: [x]\nx: []\n",
				"graph_format": "yaml",
				"first_root":   "program",
				"second_path":  second,
				"metrics":      []interface{}{"strict"},
				"iterative":    true,
			},
			scores: map[string]interface{}{"STRICT": 1.0},
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			result := decode(t, runTool(t, nil, tc.arguments, (*mcp.HandlerSet).HandleCompareTrees))

			scores, ok := result["scores"].(map[string]interface{})
			require.True(t, ok)
			require.Len(t, scores, len(tc.scores))
			for metric, want := range tc.scores {
				assert.InDelta(t, want, scores[metric], 1e-9, metric)
			}
		})
	}
}

func TestHandleCompareTrees_Errors(t *testing.T) {
	dir := t.TempDir()
	good := writeGraph(t, dir, "a.json", twoLeaves)
	cyclic := writeGraph(t, dir, "c.json", `{"main": ["a"], "a": ["main"]}`)

	tests := map[string]struct {
		arguments    interface{}
		expectPrefix string
		contains     string
	}{
		"invalid_arguments_format": {arguments: "not-a-map", expectPrefix: "invalid arguments format"},
		"first missing": {
			arguments:    map[string]interface{}{"second_path": good},
			expectPrefix: "first_path or first_graph parameter is required",
		},
		"path_not_exist": {
			arguments:    map[string]interface{}{"first_path": "/non/existing.json", "second_path": good},
			expectPrefix: "path does not exist",
		},
		"unknown metric": {
			arguments:    map[string]interface{}{"first_path": good, "second_path": good, "metrics": []interface{}{"BLEU"}},
			expectPrefix: "[INVALID_INPUT] unknown metric",
		},
		"bad inline document": {
			arguments:    map[string]interface{}{"first_graph": "{", "second_path": good},
			expectPrefix: "invalid first tree",
		},
		"bad graph format": {
			arguments:    map[string]interface{}{"first_graph": twoLeaves, "second_path": good, "graph_format": "xml"},
			expectPrefix: "[UNSUPPORTED_FORMAT]",
		},
		"cycle": {
			arguments:    map[string]interface{}{"first_path": good, "second_path": cyclic},
			expectPrefix: "comparison failed",
			contains:     "CYCLE_DETECTED",
		},
		"unknown root": {
			arguments:    map[string]interface{}{"first_path": good, "second_path": good, "root": "nope"},
			expectPrefix: "comparison failed",
			contains:     "UNKNOWN_NODE",
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			res := runTool(t, nil, tc.arguments, (*mcp.HandlerSet).HandleCompareTrees)
			require.True(t, res.IsError)

			text := mcplib.GetTextFromContent(res.Content[0])
			assert.True(t, strings.HasPrefix(text, tc.expectPrefix), "error text %q does not start with %q", text, tc.expectPrefix)
			if tc.contains != "" {
				assert.Contains(t, text, tc.contains)
			}
		})
	}
}

func TestHandleCompareTrees_UsesConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Compare.Root = "program"
	cfg.Compare.Metrics = []string{"LEV"}

	arguments := map[string]interface{}{
		"first_graph":  `{"program": ["a"], "a": []}`,
		"second_graph": `{"program": []}`,
	}
	result := decode(t, runTool(t, cfg, arguments, (*mcp.HandlerSet).HandleCompareTrees))

	scores := result["scores"].(map[string]interface{})
	assert.Len(t, scores, 1)
	assert.InDelta(t, 0.5, scores["LEV"], 1e-9)
}

func TestHandleCanonicalForm(t *testing.T) {
	dir := t.TempDir()
	path := writeGraph(t, dir, "g.json", `{"main": ["a", "b"], "a": ["c"], "b": [], "c": []}`)

	tests := map[string]struct {
		arguments map[string]interface{}
		canonical string
		size      float64
	}{
		"path": {
			arguments: map[string]interface{}{"path": path},
			canonical: "((())())",
			size:      4,
		},
		"inline with root": {
			arguments: map[string]interface{}{"graph": `{"r": ["k"], "k": []}`, "root": "r", "iterative": true},
			canonical: "(())",
			size:      2,
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			result := decode(t, runTool(t, nil, tc.arguments, (*mcp.HandlerSet).HandleCanonicalForm))
			assert.Equal(t, tc.canonical, result["canonical"])
			assert.Equal(t, tc.size, result["size"])
		})
	}

	res := runTool(t, nil, map[string]interface{}{"graph": `{"main": ["ghost"]}`}, (*mcp.HandlerSet).HandleCanonicalForm)
	require.True(t, res.IsError)
	assert.Contains(t, mcplib.GetTextFromContent(res.Content[0]), "UNKNOWN_NODE")
}

func TestHandleSimilarityMatrix(t *testing.T) {
	dir := t.TempDir()
	writeGraph(t, dir, "a.json", twoLeaves)
	writeGraph(t, dir, "b.json", oneLeaf)
	writeGraph(t, dir, "c.json", `{"main": ["ghost"]}`)

	t.Run("summary", func(t *testing.T) {
		result := decode(t, runTool(t, nil, map[string]interface{}{"path": dir, "metrics": []interface{}{"TED"}}, (*mcp.HandlerSet).HandleSimilarityMatrix))

		summary := result["summary"].(map[string]interface{})
		assert.Equal(t, 3.0, summary["total_files"])
		assert.Equal(t, 6.0, summary["total_pairs"])
		assert.Equal(t, 3.0, summary["failed_pairs"])

		pairs := result["pairs"].([]interface{})
		require.Len(t, pairs, 1)
		scores := pairs[0].(map[string]interface{})["scores"].(map[string]interface{})
		assert.InDelta(t, 0.8, scores["TED"], 1e-9)
	})

	t.Run("full with exclude", func(t *testing.T) {
		arguments := map[string]interface{}{
			"path":        dir,
			"exclude":     []interface{}{"c.json"},
			"output_mode": "full",
		}
		result := decode(t, runTool(t, nil, arguments, (*mcp.HandlerSet).HandleSimilarityMatrix))
		assert.Len(t, result["entries"], 3)
		assert.Equal(t, 0.0, result["failures"])
	})

	t.Run("errors", func(t *testing.T) {
		for _, arguments := range []interface{}{
			"not-a-map",
			map[string]interface{}{},
			map[string]interface{}{"path": filepath.Join(dir, "missing")},
			map[string]interface{}{"path": dir, "metrics": []interface{}{"BLEU"}},
		} {
			res := runTool(t, nil, arguments, (*mcp.HandlerSet).HandleSimilarityMatrix)
			assert.True(t, res.IsError, "%v", arguments)
		}
	})
}

func TestRegisterTools(t *testing.T) {
	s := server.NewMCPServer("treesim", "test", server.WithToolCapabilities(true))
	mcp.RegisterTools(s, nil)

	response := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc": "2.0", "id": 1, "method": "tools/list"}`))
	data, err := json.Marshal(response)
	require.NoError(t, err)

	for _, name := range []string{"compare_trees", "canonical_form", "similarity_matrix"} {
		assert.Contains(t, string(data), `"name":"`+name+`"`)
	}
}
