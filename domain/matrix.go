package domain

import (
	"io"
	"time"

	"github.com/ludo-technologies/treesim/internal/tree"
)

// Default file selection for the matrix command
var (
	DefaultIncludePatterns = []string{"**/*.json", "**/*.yaml", "**/*.yml", "**/*.py"}
	DefaultExcludePatterns = []string{}
)

// MatrixRequest represents a request to compare every pair of graph files
type MatrixRequest struct {
	// Input parameters
	Paths           []string `json:"paths"`
	Recursive       bool     `json:"recursive"`
	IncludePatterns []string `json:"include_patterns"`
	ExcludePatterns []string `json:"exclude_patterns"`
	Root            string   `json:"root"`

	// Analysis configuration
	Metrics   MetricSet      `json:"metrics"`
	Traversal tree.Traversal `json:"traversal"`
	Timeout   time.Duration  `json:"timeout"`

	// Output configuration
	OutputFormat OutputFormat `json:"output_format"`
	OutputWriter io.Writer    `json:"-"`
	OutputPath   string       `json:"output_path"`
	Precision    int          `json:"precision"`
	ShowProgress bool         `json:"show_progress"`

	// Configuration file
	ConfigPath string `json:"config_path"`
}

// Validate checks the request for consistency
func (req *MatrixRequest) Validate() error {
	if len(req.Paths) == 0 {
		return NewValidationError("paths cannot be empty")
	}
	if req.Root == "" {
		return NewValidationError("root label cannot be empty")
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

// DefaultMatrixRequest returns a request populated with default settings
func DefaultMatrixRequest() *MatrixRequest {
	return &MatrixRequest{
		Recursive:       true,
		IncludePatterns: append([]string(nil), DefaultIncludePatterns...),
		ExcludePatterns: append([]string(nil), DefaultExcludePatterns...),
		Root:            DefaultRoot,
		Traversal:       tree.TraversalRecursive,
		OutputFormat:    OutputFormatText,
		Precision:       DefaultPrecision,
		ShowProgress:    true,
	}
}

// MatrixEntry is the result of comparing one pair of files
type MatrixEntry struct {
	First  string           `json:"first" yaml:"first" csv:"first"`
	Second string           `json:"second" yaml:"second" csv:"second"`
	Scores SimilarityReport `json:"scores,omitempty" yaml:"scores,omitempty" csv:"scores"`
	Error  string           `json:"error,omitempty" yaml:"error,omitempty" csv:"error"`
}

// Failed reports whether the pair could not be compared
func (e *MatrixEntry) Failed() bool {
	return e.Error != ""
}

// MatrixResponse represents the result of a pairwise comparison run
type MatrixResponse struct {
	ID          string         `json:"id" yaml:"id"`
	Files       []string       `json:"files" yaml:"files"`
	Metrics     []string       `json:"metrics" yaml:"metrics"`
	Entries     []*MatrixEntry `json:"entries" yaml:"entries"`
	Failures    int            `json:"failures" yaml:"failures"`
	Duration    int64          `json:"duration_ms" yaml:"duration_ms"`
	GeneratedAt string         `json:"generated_at" yaml:"generated_at"`
	Version     string         `json:"version" yaml:"version"`
	Request     *MatrixRequest `json:"-" yaml:"-"`
}

// Lookup returns the entry for the unordered pair (a, b), or nil
func (r *MatrixResponse) Lookup(a, b string) *MatrixEntry {
	for _, e := range r.Entries {
		if (e.First == a && e.Second == b) || (e.First == b && e.Second == a) {
			return e
		}
	}
	return nil
}
