package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/treesim/internal/version"
)

// NewRootCmd builds the treesim command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "treesim",
		Short: "Structural similarity between rooted ordered trees",
		Long: `treesim compares rooted ordered trees described as adjacency graphs
(JSON or YAML) or derived from Python source files.

Metrics:
  • STRICT  equality of the AHU canonical forms
  • LEV     normalized Levenshtein similarity of the canonical forms
  • TED     normalized Zhang-Shasha tree edit similarity`,
		Version:           version.Short(),
		SilenceUsage:      true,
		PersistentPreRunE: configureLogging,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")

	rootCmd.AddCommand(NewCompareCmd())
	rootCmd.AddCommand(NewMatrixCmd())
	rootCmd.AddCommand(NewCanonicalCmd())
	rootCmd.AddCommand(NewWatchCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
