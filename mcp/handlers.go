package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ludo-technologies/treesim/domain"
	"github.com/ludo-technologies/treesim/internal/parser"
	"github.com/ludo-technologies/treesim/internal/tree"
	"github.com/ludo-technologies/treesim/service"
)

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	if deps == nil {
		deps = NewDependencies(nil, "", nil)
	}
	return &HandlerSet{deps: deps}
}

// treeInput is one tree given either as a file path or as an inline document
type treeInput struct {
	path   string
	graph  tree.Graph
	root   string
	inline bool
}

// HandleCompareTrees handles the compare_trees tool
func (h *HandlerSet) HandleCompareTrees(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	metricSet, err := h.metricsArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	first, err := h.treeArg(ctx, args, "first")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	second, err := h.treeArg(ctx, args, "second")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cfg := h.deps.Config()
	req := &domain.CompareRequest{
		FirstPath:  first.path,
		SecondPath: second.path,
		FirstRoot:  first.root,
		SecondRoot: second.root,
		Metrics:    metricSet,
		Traversal:  h.traversalArg(args),
		Precision:  cfg.Output.Precision,
		ConfigPath: h.deps.ConfigPath(),
	}

	compareService := h.deps.CompareService()
	var response *domain.CompareResponse
	if first.inline || second.inline {
		if !first.inline {
			if first.graph, err = h.deps.Loader().Load(ctx, first.path); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
			}
		}
		if !second.inline {
			if second.graph, err = h.deps.Loader().Load(ctx, second.path); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
			}
		}
		response, err = compareService.CompareGraphs(ctx, req, first.graph, second.graph)
	} else {
		response, err = compareService.Compare(ctx, req)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}

	return jsonResult(response)
}

// HandleCanonicalForm handles the canonical_form tool
func (h *HandlerSet) HandleCanonicalForm(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	input, err := h.treeArg(ctx, args, "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var summary *domain.TreeSummary
	if input.inline {
		summary, err = service.DescribeGraph(input.graph, input.path, input.root, h.traversalArg(args))
	} else {
		summary, err = h.deps.CanonicalService().Describe(ctx, input.path, input.root, h.traversalArg(args))
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("canonical form failed: %v", err)), nil
	}

	return jsonResult(summary)
}

// HandleSimilarityMatrix handles the similarity_matrix tool
func (h *HandlerSet) HandleSimilarityMatrix(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
	}

	metricSet, err := h.metricsArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cfg := h.deps.Config()
	req := &domain.MatrixRequest{
		Paths:           []string{path},
		Recursive:       cfg.Matrix.Recursive,
		IncludePatterns: cfg.Matrix.IncludePatterns,
		ExcludePatterns: cfg.Matrix.ExcludePatterns,
		Root:            cfg.Compare.Root,
		Metrics:         metricSet,
		Traversal:       h.traversalArg(args),
		Precision:       cfg.Output.Precision,
		ConfigPath:      h.deps.ConfigPath(),
	}
	if recursive, ok := args["recursive"].(bool); ok {
		req.Recursive = recursive
	}
	if root, ok := args["root"].(string); ok && root != "" {
		req.Root = root
	}
	if include := stringSlice(args["include"]); len(include) > 0 {
		req.IncludePatterns = include
	}
	if exclude := stringSlice(args["exclude"]); len(exclude) > 0 {
		req.ExcludePatterns = exclude
	}

	response, err := h.deps.MatrixService().BuildMatrix(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("matrix failed: %v", err)), nil
	}

	outputMode := "summary"
	if om, ok := args["output_mode"].(string); ok {
		outputMode = om
	}
	if outputMode == "full" {
		return jsonResult(response)
	}
	return jsonResult(formatMatrixSummary(response))
}

// treeArg reads one tree from <prefix>_path or <prefix>_graph, the latter
// decoded with graph_format. An empty prefix reads path and graph.
func (h *HandlerSet) treeArg(ctx context.Context, args map[string]interface{}, prefix string) (treeInput, error) {
	key := func(name string) string {
		if prefix == "" {
			return name
		}
		return prefix + "_" + name
	}
	label := "tree"
	if prefix != "" {
		label = prefix + " tree"
	}

	var input treeInput
	path, _ := args[key("path")].(string)
	document, _ := args[key("graph")].(string)

	switch {
	case document != "":
		format, err := service.ParseGraphFormat(stringOr(args["graph_format"], ""))
		if err != nil {
			return input, err
		}
		graph, err := h.deps.Loader().Decode(ctx, []byte(document), format)
		if err != nil {
			return input, fmt.Errorf("invalid %s: %v", label, err)
		}
		input.graph, input.inline = graph, true
		input.path = path
		if input.path == "" {
			input.path = "<" + key("graph") + ">"
		}
		if format == service.GraphFormatPython {
			input.root = parser.RootLabel
		}
	case path != "":
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return input, fmt.Errorf("path does not exist: %s", path)
		}
		input.path = path
		input.root = service.DefaultRootFor(path, "")
	default:
		return input, fmt.Errorf("%s or %s parameter is required", key("path"), key("graph"))
	}

	if input.root == "" {
		input.root = h.rootArg(args, prefix)
	}
	return input, nil
}

// rootArg resolves a root label: <prefix>_root, then root, then the config
func (h *HandlerSet) rootArg(args map[string]interface{}, prefix string) string {
	if prefix != "" {
		if root := stringOr(args[prefix+"_root"], ""); root != "" {
			return root
		}
	}
	if root := stringOr(args["root"], ""); root != "" {
		return root
	}

	cfg := h.deps.Config()
	switch prefix {
	case "first":
		return cfg.Compare.RootFor(domain.FirstTree)
	case "second":
		return cfg.Compare.RootFor(domain.SecondTree)
	default:
		return cfg.Compare.Root
	}
}

// metricsArg parses the metrics array, falling back to the configured metrics
func (h *HandlerSet) metricsArg(args map[string]interface{}) (domain.MetricSet, error) {
	names := stringSlice(args["metrics"])
	if len(names) == 0 {
		names = h.deps.Config().Compare.Metrics
	}
	return domain.ParseMetricSet(names)
}

func (h *HandlerSet) traversalArg(args map[string]interface{}) tree.Traversal {
	if iterative, ok := args["iterative"].(bool); ok {
		if iterative {
			return tree.TraversalIterative
		}
		return tree.TraversalRecursive
	}
	if traversal := tree.Traversal(h.deps.Config().Compare.Traversal); traversal.IsValid() {
		return traversal
	}
	return tree.TraversalRecursive
}

func stringOr(v interface{}, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func stringSlice(v interface{}) []string {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func formatMatrixSummary(result *domain.MatrixResponse) map[string]interface{} {
	failures := make([]map[string]interface{}, 0, result.Failures)
	for _, entry := range result.Entries {
		if entry.Failed() {
			failures = append(failures, map[string]interface{}{
				"first":  entry.First,
				"second": entry.Second,
				"error":  entry.Error,
			})
		}
	}

	pairs := make([]map[string]interface{}, 0, len(result.Entries))
	for _, entry := range result.Entries {
		if entry.Failed() || entry.First == entry.Second {
			continue
		}
		pairs = append(pairs, map[string]interface{}{
			"first":  entry.First,
			"second": entry.Second,
			"scores": entry.Scores,
		})
	}

	return map[string]interface{}{
		"files":    result.Files,
		"metrics":  result.Metrics,
		"pairs":    pairs,
		"failures": failures,
		"summary": map[string]interface{}{
			"total_files":  len(result.Files),
			"total_pairs":  len(result.Entries),
			"failed_pairs": result.Failures,
			"duration_ms":  result.Duration,
		},
	}
}
