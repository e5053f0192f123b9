package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/treesim/domain"
	"github.com/ludo-technologies/treesim/internal/metrics"
	"github.com/ludo-technologies/treesim/internal/parser"
	"github.com/ludo-technologies/treesim/internal/tree"
)

// GraphFormat identifies how a graph document is encoded
type GraphFormat string

const (
	GraphFormatJSON   GraphFormat = "json"
	GraphFormatYAML   GraphFormat = "yaml"
	GraphFormatPython GraphFormat = "python"
)

// GraphFormatForPath picks the format from the file extension
func GraphFormatForPath(path string) (GraphFormat, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return GraphFormatJSON, true
	case ".yaml", ".yml":
		return GraphFormatYAML, true
	case ".py":
		return GraphFormatPython, true
	default:
		return "", false
	}
}

// ParseGraphFormat parses a format name as given on the command line or by
// an MCP client
func ParseGraphFormat(s string) (GraphFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return GraphFormatJSON, nil
	case "yaml", "yml":
		return GraphFormatYAML, nil
	case "python", "py":
		return GraphFormatPython, nil
	default:
		return "", domain.NewUnsupportedFormatError(s)
	}
}

// GraphLoaderImpl implements the GraphLoader interface for JSON and YAML
// adjacency documents and Python source files
type GraphLoaderImpl struct{}

// NewGraphLoader creates a new graph loader
func NewGraphLoader() *GraphLoaderImpl {
	return &GraphLoaderImpl{}
}

// Supports reports whether the file extension of path is understood
func (l *GraphLoaderImpl) Supports(path string) bool {
	_, ok := GraphFormatForPath(path)
	return ok
}

// Load reads and decodes the graph stored at path
func (l *GraphLoaderImpl) Load(ctx context.Context, path string) (tree.Graph, error) {
	format, ok := GraphFormatForPath(path)
	if !ok {
		return nil, domain.NewUnsupportedFormatError(filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		metrics.GraphsLoaded.WithLabelValues(string(format), metrics.StatusError).Inc()
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewFileNotFoundError(path, err)
		}
		return nil, domain.NewInvalidInputError(fmt.Sprintf("cannot read %s", path), err)
	}

	graph, err := l.Decode(ctx, data, format)
	metrics.GraphsLoaded.WithLabelValues(string(format), metrics.Status(err)).Inc()
	if err != nil {
		return nil, domain.NewMalformedInputError(path, err)
	}
	return graph, nil
}

// Decode decodes an in-memory graph document. JSON and YAML documents must
// be a mapping from node label to a list of child labels.
func (l *GraphLoaderImpl) Decode(ctx context.Context, data []byte, format GraphFormat) (tree.Graph, error) {
	switch format {
	case GraphFormatJSON:
		var graph tree.Graph
		if err := json.Unmarshal(data, &graph); err != nil {
			return nil, fmt.Errorf("invalid JSON graph: %w", err)
		}
		return nonNil(graph), nil

	case GraphFormatYAML:
		var graph tree.Graph
		if err := yaml.Unmarshal(data, &graph); err != nil {
			return nil, fmt.Errorf("invalid YAML graph: %w", err)
		}
		return nonNil(graph), nil

	case GraphFormatPython:
		graph, err := parser.New().ParseGraph(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("invalid Python source: %w", err)
		}
		return graph, nil

	default:
		return nil, fmt.Errorf("unsupported graph format %q", format)
	}
}

// DefaultRootFor returns the conventional root label of a graph file; Python
// sources always use the parser's module label
func DefaultRootFor(path, configured string) string {
	if format, ok := GraphFormatForPath(path); ok && format == GraphFormatPython {
		return parser.RootLabel
	}
	return configured
}

// nonNil turns a JSON null or empty YAML document into an empty graph
func nonNil(graph tree.Graph) tree.Graph {
	if graph == nil {
		return tree.Graph{}
	}
	return graph
}
