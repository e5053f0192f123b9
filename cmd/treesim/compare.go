package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/treesim/app"
	"github.com/ludo-technologies/treesim/domain"
	"github.com/ludo-technologies/treesim/internal/tree"
	"github.com/ludo-technologies/treesim/service"
)

// compareFlags holds the flags shared by compare and watch
type compareFlags struct {
	metrics    []string
	root       string
	firstRoot  string
	secondRoot string
	format     string
	details    bool
	iterative  bool
	timeout    time.Duration
	precision  int
	configFile string
}

func (f *compareFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.metrics, "metrics", "m", nil, "Metrics to compute: STRICT, LEV, TED (default all)")
	cmd.Flags().StringVar(&f.root, "root", domain.DefaultRoot, "Root label of both graphs")
	cmd.Flags().StringVar(&f.firstRoot, "first-root", "", "Root label of the first graph")
	cmd.Flags().StringVar(&f.secondRoot, "second-root", "", "Root label of the second graph")
	cmd.Flags().StringVarP(&f.format, "format", "f", "text", "Output format: text, json, yaml, csv")
	cmd.Flags().BoolVar(&f.details, "details", false, "Show canonical forms, sizes and raw distances")
	cmd.Flags().BoolVar(&f.iterative, "iterative", false, "Use the explicit-stack traversals for deep trees")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Abort a comparison after this long (0 = no limit)")
	cmd.Flags().IntVar(&f.precision, "precision", domain.DefaultPrecision, "Decimals shown for scores")
	cmd.Flags().StringVarP(&f.configFile, "config", "c", "", "Configuration file path (default: nearest .treesim.toml)")
}

// request builds the command-line side of a compare request
func (f *compareFlags) request(cmd *cobra.Command, first, second string) (*domain.CompareRequest, error) {
	metricSet, err := domain.ParseMetricSet(f.metrics)
	if err != nil {
		return nil, err
	}
	format, err := domain.ParseOutputFormat(f.format)
	if err != nil {
		return nil, err
	}

	firstRoot, secondRoot := f.root, f.root
	if f.firstRoot != "" {
		firstRoot = f.firstRoot
	}
	if f.secondRoot != "" {
		secondRoot = f.secondRoot
	}

	traversal := tree.TraversalRecursive
	if f.iterative {
		traversal = tree.TraversalIterative
	}

	return &domain.CompareRequest{
		FirstPath:    first,
		SecondPath:   second,
		FirstRoot:    service.DefaultRootFor(first, firstRoot),
		SecondRoot:   service.DefaultRootFor(second, secondRoot),
		Metrics:      metricSet,
		Traversal:    traversal,
		Timeout:      f.timeout,
		OutputFormat: format,
		OutputWriter: cmd.OutOrStdout(),
		ShowDetails:  f.details,
		Precision:    f.precision,
		ConfigPath:   f.configFile,
	}, nil
}

// explicitFlags reports the flags the user set; Python inputs always use
// the parser's root label
func (f *compareFlags) explicitFlags(cmd *cobra.Command, first, second string) map[string]bool {
	flags := GetExplicitFlags(cmd)
	if service.DefaultRootFor(first, "") != "" {
		flags[service.FlagFirstRoot] = true
	}
	if service.DefaultRootFor(second, "") != "" {
		flags[service.FlagSecondRoot] = true
	}
	return flags
}

// CompareCommand represents the compare command
type CompareCommand struct {
	compareFlags
	output string
}

// NewCompareCommand creates a new compare command
func NewCompareCommand() *CompareCommand {
	return &CompareCommand{}
}

// CreateCobraCommand creates the cobra command for two-file comparison
func (c *CompareCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare FIRST SECOND",
		Short: "Compare two trees",
		Long: `Compare the trees described by two graph files.

A graph file maps every node label to the ordered list of its child labels.
JSON (.json), YAML (.yaml, .yml) and Python sources (.py) are accepted.

Examples:
  # All metrics, one "name: value" line each
  treesim compare a.json b.json

  # Only the tree edit similarity, as JSON
  treesim compare --metrics TED --format json a.json b.json

  # Different root labels and a detailed report
  treesim compare --first-root program --second-root main --details a.yaml b.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: c.run,
	}

	c.bind(cmd)
	cmd.Flags().StringVarP(&c.output, "output", "o", "", "Write the report to this file instead of stdout")
	return cmd
}

func (c *CompareCommand) run(cmd *cobra.Command, args []string) error {
	req, err := c.request(cmd, args[0], args[1])
	if err != nil {
		return err
	}
	req.OutputPath = c.output

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	useCase, err := app.NewCompareUseCaseBuilder().
		WithService(service.NewCompareService(nil, nil)).
		WithFormatter(service.NewOutputFormatter()).
		WithConfigLoader(service.NewConfigurationLoaderWithFlags(c.explicitFlags(cmd, args[0], args[1]))).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		Build()
	if err != nil {
		return err
	}
	return useCase.Execute(ctx, *req)
}

// NewCompareCmd creates and returns the compare cobra command
func NewCompareCmd() *cobra.Command {
	return NewCompareCommand().CreateCobraCommand()
}
