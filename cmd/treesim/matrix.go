package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/treesim/app"
	"github.com/ludo-technologies/treesim/domain"
	"github.com/ludo-technologies/treesim/internal/tree"
	"github.com/ludo-technologies/treesim/service"
)

// MatrixCommand represents the pairwise comparison command
type MatrixCommand struct {
	metrics    []string
	root       string
	include    []string
	exclude    []string
	recursive  bool
	noProgress bool
	format     string
	iterative  bool
	timeout    time.Duration
	precision  int
	output     string
	configFile string
}

// NewMatrixCommand creates a new matrix command
func NewMatrixCommand() *MatrixCommand {
	return &MatrixCommand{recursive: true}
}

// CreateCobraCommand creates the cobra command for pairwise comparison
func (m *MatrixCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matrix PATH...",
		Short: "Compare every pair of graph files",
		Long: `Compare every unordered pair of graph files found under the given paths,
each file with itself included. A pair that cannot be compared is reported
as an error entry and the run continues.

Examples:
  # All graph files under graphs/
  treesim matrix graphs/

  # Only JSON files, skipping fixtures, as CSV
  treesim matrix --include "**/*.json" --exclude "fixtures/**" --format csv graphs/`,
		Args: cobra.MinimumNArgs(1),
		RunE: m.run,
	}

	cmd.Flags().StringSliceVarP(&m.metrics, "metrics", "m", nil, "Metrics to compute: STRICT, LEV, TED (default all)")
	cmd.Flags().StringVar(&m.root, "root", domain.DefaultRoot, "Root label of the JSON and YAML graphs")
	cmd.Flags().StringSliceVar(&m.include, "include", nil, "Glob patterns of files to include")
	cmd.Flags().StringSliceVar(&m.exclude, "exclude", nil, "Glob patterns of files to exclude")
	cmd.Flags().BoolVarP(&m.recursive, "recursive", "r", true, "Descend into subdirectories")
	cmd.Flags().BoolVar(&m.noProgress, "no-progress", false, "Hide the progress bar")
	cmd.Flags().StringVarP(&m.format, "format", "f", "text", "Output format: text, json, yaml, csv")
	cmd.Flags().BoolVar(&m.iterative, "iterative", false, "Use the explicit-stack traversals for deep trees")
	cmd.Flags().DurationVar(&m.timeout, "timeout", 0, "Abort a pair after this long (0 = no limit)")
	cmd.Flags().IntVar(&m.precision, "precision", domain.DefaultPrecision, "Decimals shown for scores")
	cmd.Flags().StringVarP(&m.output, "output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().StringVarP(&m.configFile, "config", "c", "", "Configuration file path (default: nearest .treesim.toml)")
	return cmd
}

func (m *MatrixCommand) run(cmd *cobra.Command, args []string) error {
	metricSet, err := domain.ParseMetricSet(m.metrics)
	if err != nil {
		return err
	}
	format, err := domain.ParseOutputFormat(m.format)
	if err != nil {
		return err
	}
	traversal := tree.TraversalRecursive
	if m.iterative {
		traversal = tree.TraversalIterative
	}

	req := domain.MatrixRequest{
		Paths:           args,
		Recursive:       m.recursive,
		IncludePatterns: m.include,
		ExcludePatterns: m.exclude,
		Root:            m.root,
		Metrics:         metricSet,
		Traversal:       traversal,
		Timeout:         m.timeout,
		OutputFormat:    format,
		OutputWriter:    cmd.OutOrStdout(),
		OutputPath:      m.output,
		Precision:       m.precision,
		ShowProgress:    !m.noProgress,
		ConfigPath:      m.configFile,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	progress := service.NewProgressManager("Comparing")
	progress.SetWriter(cmd.ErrOrStderr())

	useCase := app.NewMatrixUseCase(
		service.NewMatrixService(nil, nil, progress, nil),
		service.NewOutputFormatter(),
		service.NewConfigurationLoaderWithFlags(GetExplicitFlags(cmd)),
	).WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr()))

	response, err := useCase.Execute(ctx, req)
	if err != nil {
		return err
	}
	if response.Failures > 0 {
		slog.Warn("some pairs could not be compared", "failures", response.Failures, "pairs", len(response.Entries))
	}
	return nil
}

// NewMatrixCmd creates and returns the matrix cobra command
func NewMatrixCmd() *cobra.Command {
	return NewMatrixCommand().CreateCobraCommand()
}
