package domain

import (
	"context"
	"io"
	"strings"

	"github.com/ludo-technologies/treesim/internal/tree"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// ParseOutputFormat parses a format name, defaulting the empty string to text
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", OutputFormatText:
		return OutputFormatText, nil
	case OutputFormatJSON:
		return OutputFormatJSON, nil
	case OutputFormatYAML, "yml":
		return OutputFormatYAML, nil
	case OutputFormatCSV:
		return OutputFormatCSV, nil
	default:
		return "", NewUnsupportedFormatError(s)
	}
}

// GraphLoader reads a graph file from disk
type GraphLoader interface {
	// Load decodes the graph stored at path. The format is chosen by extension.
	Load(ctx context.Context, path string) (tree.Graph, error)

	// Supports reports whether the loader understands the file extension of path
	Supports(path string) bool
}

// CompareService compares two graph files
type CompareService interface {
	Compare(ctx context.Context, req *CompareRequest) (*CompareResponse, error)
}

// MatrixService compares every pair of a set of graph files
type MatrixService interface {
	BuildMatrix(ctx context.Context, req *MatrixRequest) (*MatrixResponse, error)
}

// FileCollector finds graph files under a set of paths
type FileCollector interface {
	CollectGraphFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)
}

// OutputFormatter renders comparison results
type OutputFormatter interface {
	WriteCompare(response *CompareResponse, format OutputFormat, writer io.Writer) error
	WriteMatrix(response *MatrixResponse, format OutputFormat, writer io.Writer) error
}

// ProgressManager manages progress tracking for long-running operations
type ProgressManager interface {
	// Initialize sets up progress tracking with the maximum value
	Initialize(maxValue int)

	// Start starts the progress bar
	Start()

	// Update updates the progress
	Update(processed, total int)

	// Complete marks the progress as completed
	Complete(success bool)

	// SetWriter sets the output writer for progress bars
	SetWriter(writer io.Writer)

	// IsInteractive returns true if progress bars should be shown
	IsInteractive() bool

	// Close cleans up any resources
	Close()
}

// ReportWriter sends a rendered report to a file or to a writer
type ReportWriter interface {
	// Write calls writeFunc with the file at outputPath, or with writer when
	// outputPath is empty
	Write(writer io.Writer, outputPath string, format OutputFormat, writeFunc func(io.Writer) error) error
}

// CompareConfigurationLoader turns configuration files into compare requests
type CompareConfigurationLoader interface {
	// LoadCompareConfig loads path, or the discovered project file when path is empty
	LoadCompareConfig(path string) (*CompareRequest, error)

	// MergeCompareConfig applies the command-line request over the loaded one
	MergeCompareConfig(base, override *CompareRequest) *CompareRequest
}

// MatrixConfigurationLoader turns configuration files into matrix requests
type MatrixConfigurationLoader interface {
	LoadMatrixConfig(path string) (*MatrixRequest, error)
	MergeMatrixConfig(base, override *MatrixRequest) *MatrixRequest
}

// CanonicalService materializes a single graph file and describes its tree
type CanonicalService interface {
	Describe(ctx context.Context, path, root string, traversal tree.Traversal) (*TreeSummary, error)
}

// ParallelExecutor runs independent indexed jobs concurrently
type ParallelExecutor interface {
	Execute(ctx context.Context, n int, job func(ctx context.Context, i int) error) error
}
