package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/treesim/domain"
	"github.com/ludo-technologies/treesim/internal/config"
	"github.com/ludo-technologies/treesim/internal/tree"
	"github.com/ludo-technologies/treesim/service"
)

// CanonicalCommand represents the canonical form command
type CanonicalCommand struct {
	root       string
	iterative  bool
	format     string
	configFile string
}

// NewCanonicalCommand creates a new canonical command
func NewCanonicalCommand() *CanonicalCommand {
	return &CanonicalCommand{}
}

// CreateCobraCommand creates the cobra command printing a canonical form
func (c *CanonicalCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "canonical FILE",
		Short: "Print the canonical form of a tree",
		Long: `Print the AHU canonical form of the tree described by a graph file,
together with its size and height. Two trees are isomorphic exactly when
their canonical forms are equal.

Examples:
  treesim canonical graph.json
  treesim canonical --root program --format json graph.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}

	cmd.Flags().StringVar(&c.root, "root", domain.DefaultRoot, "Root label of the graph")
	cmd.Flags().BoolVar(&c.iterative, "iterative", false, "Use the explicit-stack traversals for deep trees")
	cmd.Flags().StringVarP(&c.format, "format", "f", "text", "Output format: text, json, yaml")
	cmd.Flags().StringVarP(&c.configFile, "config", "c", "", "Configuration file path (default: nearest .treesim.toml)")
	return cmd
}

func (c *CanonicalCommand) run(cmd *cobra.Command, args []string) error {
	format, err := domain.ParseOutputFormat(c.format)
	if err != nil {
		return err
	}

	cfg, _, err := config.ResolveConfig(c.configFile, ".")
	if err != nil {
		return domain.NewConfigError("failed to load configuration file", err)
	}
	root := config.Merge(cfg.Compare.Root, c.root, "root", GetExplicitFlags(cmd))
	traversal := tree.Traversal(cfg.Compare.Traversal)
	if c.iterative {
		traversal = tree.TraversalIterative
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	summary, err := service.NewCanonicalService(nil).Describe(ctx, args[0], root, traversal)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case domain.OutputFormatJSON:
		return service.WriteJSON(out, summary)
	case domain.OutputFormatYAML:
		return service.WriteYAML(out, summary)
	case domain.OutputFormatText:
		fmt.Fprintf(out, "canonical: %s\nsize: %d\nheight: %d\n", summary.Canonical, summary.Size, summary.Height)
		return nil
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// NewCanonicalCmd creates and returns the canonical cobra command
func NewCanonicalCmd() *cobra.Command {
	return NewCanonicalCommand().CreateCobraCommand()
}
