package domain

import (
	"io"
	"time"

	"github.com/ludo-technologies/treesim/internal/tree"
)

// Default comparison settings
const (
	// DefaultRoot is the conventional root label of graph files
	DefaultRoot = "main"

	// DefaultPrecision is the number of decimals used in text and CSV output
	DefaultPrecision = 4
)

// TreeInput is one side of an in-memory comparison
type TreeInput struct {
	Graph tree.Graph
	Root  string
}

// CompareRequest represents a request to compare two graph files
type CompareRequest struct {
	// Input
	FirstPath  string `json:"first_path"`
	SecondPath string `json:"second_path"`
	FirstRoot  string `json:"first_root"`
	SecondRoot string `json:"second_root"`

	// Analysis configuration
	Metrics   MetricSet      `json:"metrics"`
	Traversal tree.Traversal `json:"traversal"`
	Timeout   time.Duration  `json:"timeout"`

	// Output configuration
	OutputFormat OutputFormat `json:"output_format"`
	OutputWriter io.Writer    `json:"-"`
	OutputPath   string       `json:"output_path"`
	ShowDetails  bool         `json:"show_details"`
	Precision    int          `json:"precision"`

	// Configuration file
	ConfigPath string `json:"config_path"`
}

// Validate checks the request for consistency
func (req *CompareRequest) Validate() error {
	if req.FirstPath == "" || req.SecondPath == "" {
		return NewValidationError("two graph paths are required")
	}
	if req.FirstRoot == "" || req.SecondRoot == "" {
		return NewValidationError("root labels cannot be empty")
	}
	if req.Traversal != "" && !req.Traversal.IsValid() {
		return NewValidationError("traversal must be 'recursive' or 'iterative'")
	}
	if req.Timeout < 0 {
		return NewValidationError("timeout must be >= 0")
	}
	if req.Precision < 0 {
		return NewValidationError("precision must be >= 0")
	}
	return nil
}

// HasValidOutputWriter checks if the request has a valid output writer
func (req *CompareRequest) HasValidOutputWriter() bool {
	return req.OutputWriter != nil
}

// DefaultCompareRequest returns a request populated with default settings
func DefaultCompareRequest() *CompareRequest {
	return &CompareRequest{
		FirstRoot:    DefaultRoot,
		SecondRoot:   DefaultRoot,
		Traversal:    tree.TraversalRecursive,
		OutputFormat: OutputFormatText,
		Precision:    DefaultPrecision,
	}
}

// TreeSummary describes one compared tree
type TreeSummary struct {
	Path      string `json:"path" yaml:"path" csv:"path"`
	Root      string `json:"root" yaml:"root" csv:"root"`
	Size      int    `json:"size" yaml:"size" csv:"size"`
	Height    int    `json:"height" yaml:"height" csv:"height"`
	Canonical string `json:"canonical,omitempty" yaml:"canonical,omitempty" csv:"canonical"`
}

// RawDistances holds the unnormalized distances behind the scores.
// A nil field means the metric was not computed.
type RawDistances struct {
	Levenshtein  *int `json:"levenshtein,omitempty" yaml:"levenshtein,omitempty"`
	EditDistance *int `json:"tree_edit_distance,omitempty" yaml:"tree_edit_distance,omitempty"`
}

// CompareResponse represents the result of comparing two graphs
type CompareResponse struct {
	ID          string           `json:"id" yaml:"id"`
	First       TreeSummary      `json:"first" yaml:"first"`
	Second      TreeSummary      `json:"second" yaml:"second"`
	Scores      SimilarityReport `json:"scores" yaml:"scores"`
	Distances   RawDistances     `json:"distances" yaml:"distances"`
	Metrics     []string         `json:"metrics" yaml:"metrics"`
	Duration    int64            `json:"duration_ms" yaml:"duration_ms"`
	GeneratedAt string           `json:"generated_at" yaml:"generated_at"`
	Version     string           `json:"version" yaml:"version"`
	Request     *CompareRequest  `json:"-" yaml:"-"`
}
