package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/treesim/domain"
	"github.com/ludo-technologies/treesim/service"
)

// WatchCommand represents the watch command
type WatchCommand struct {
	compareFlags
}

// NewWatchCommand creates a new watch command
func NewWatchCommand() *WatchCommand {
	return &WatchCommand{}
}

// CreateCobraCommand creates the cobra command for continuous comparison
func (w *WatchCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch FIRST SECOND",
		Short: "Compare two trees again whenever either file changes",
		Long: `Compare two graph files, then keep watching them and print a new
report after every change. Stop with Ctrl-C.

Examples:
  treesim watch a.json b.json
  treesim watch --metrics TED,LEV before.py after.py`,
		Args: cobra.ExactArgs(2),
		RunE: w.run,
	}

	w.bind(cmd)
	return cmd
}

func (w *WatchCommand) run(cmd *cobra.Command, args []string) error {
	override, err := w.request(cmd, args[0], args[1])
	if err != nil {
		return err
	}

	loader := service.NewConfigurationLoaderWithFlags(w.explicitFlags(cmd, args[0], args[1]))
	base, err := loader.LoadCompareConfig(override.ConfigPath)
	if err != nil {
		return err
	}
	req := loader.MergeCompareConfig(base, override)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	formatter := service.NewOutputFormatter()
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	watcher := service.NewWatchService(service.NewCompareService(nil, nil), nil)
	return watcher.Watch(ctx, req, func(resp *domain.CompareResponse, err error) {
		if err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
			return
		}
		if req.OutputFormat == domain.OutputFormatText {
			fmt.Fprintf(out, "--- %s\n", resp.GeneratedAt)
		}
		if err := formatter.WriteCompare(resp, req.OutputFormat, out); err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
		}
	})
}

// NewWatchCmd creates and returns the watch cobra command
func NewWatchCmd() *cobra.Command {
	return NewWatchCommand().CreateCobraCommand()
}
