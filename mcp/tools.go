package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

var metricItems = []string{"STRICT", "LEV", "TED"}

// RegisterTools registers all treesim MCP tools with the server
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	if h == nil {
		h = NewHandlerSet(nil)
	}

	// Tool 1: compare_trees - Similarity of two trees
	s.AddTool(mcp.NewTool("compare_trees",
		mcp.WithDescription("Compare two trees given as graph files or inline adjacency documents (label -> child labels) and report strict, Levenshtein and tree edit similarity"),
		mcp.WithString("first_path",
			mcp.Description("Path to the first graph file (.json, .yaml, .yml, .py)")),
		mcp.WithString("second_path",
			mcp.Description("Path to the second graph file (.json, .yaml, .yml, .py)")),
		mcp.WithString("first_graph",
			mcp.Description("Inline first graph document, used instead of first_path")),
		mcp.WithString("second_graph",
			mcp.Description("Inline second graph document, used instead of second_path")),
		mcp.WithString("graph_format",
			mcp.Enum("json", "yaml", "python"),
			mcp.Description("Encoding of the inline graph documents (default: json)")),
		mcp.WithString("root",
			mcp.Description("Root label of both trees (default: main)")),
		mcp.WithString("first_root",
			mcp.Description("Root label of the first tree")),
		mcp.WithString("second_root",
			mcp.Description("Root label of the second tree")),
		mcp.WithArray("metrics",
			mcp.WithStringEnumItems(metricItems),
			mcp.Description("Metrics to compute. Options: STRICT, LEV, TED. Default: all metrics")),
		mcp.WithBoolean("iterative",
			mcp.Description("Use explicit-stack traversals for very deep trees (default: false)")),
	), h.HandleCompareTrees)

	// Tool 2: canonical_form - AHU canonical string of one tree
	s.AddTool(mcp.NewTool("canonical_form",
		mcp.WithDescription("Compute the canonical parenthesis form, size and height of one tree"),
		mcp.WithString("path",
			mcp.Description("Path to a graph file (.json, .yaml, .yml, .py)")),
		mcp.WithString("graph",
			mcp.Description("Inline graph document, used instead of path")),
		mcp.WithString("graph_format",
			mcp.Enum("json", "yaml", "python"),
			mcp.Description("Encoding of the inline graph document (default: json)")),
		mcp.WithString("root",
			mcp.Description("Root label (default: main)")),
		mcp.WithBoolean("iterative",
			mcp.Description("Use explicit-stack traversals for very deep trees (default: false)")),
	), h.HandleCanonicalForm)

	// Tool 3: similarity_matrix - Pairwise comparison of a directory
	s.AddTool(mcp.NewTool("similarity_matrix",
		mcp.WithDescription("Compare every pair of graph files under a directory"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File or directory containing graph files")),
		mcp.WithArray("metrics",
			mcp.WithStringEnumItems(metricItems),
			mcp.Description("Metrics to compute. Options: STRICT, LEV, TED. Default: all metrics")),
		mcp.WithString("root",
			mcp.Description("Root label of the JSON and YAML graphs (default: main)")),
		mcp.WithBoolean("recursive",
			mcp.Description("Recursively collect files from directories (default: true)")),
		mcp.WithArray("include",
			mcp.WithStringItems(),
			mcp.Description("Glob patterns of files to include")),
		mcp.WithArray("exclude",
			mcp.WithStringItems(),
			mcp.Description("Glob patterns of files to exclude")),
		mcp.WithString("output_mode",
			mcp.Enum("summary", "full"),
			mcp.Description("summary lists scored pairs and failures; full returns every entry with metadata (default: summary)")),
	), h.HandleSimilarityMatrix)
}
