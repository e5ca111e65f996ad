// ABOUTME: CLI command to process the embedding queue
// ABOUTME: Drives batch cycles until the queue drains or a signal arrives
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process pending embedding jobs",
		Long: `Process pending embedding jobs until the queue drains.

Jobs are pulled in enqueue order, embedded in adaptive batches, quality
gated, and written to the vector store. Interrupting with Ctrl-C reverts
in-flight jobs to pending so a later run picks them up cleanly.

Examples:
  vectorpipe run
  vectorpipe run --quiet`,
		RunE: runRun,
	}

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	p, err := openPipeline()
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := p.orch.Run(ctx); err != nil {
		return fmt.Errorf("processing queue: %w", err)
	}

	if !quiet {
		stats := p.orch.Stats()
		fmt.Fprintf(cmd.OutOrStdout(),
			"✓ Processed %d cycle(s): %d completed, %d failed, %d retried, %d rejected\n",
			stats.Cycles, stats.Completed, stats.Failed, stats.Retried, stats.Rejected)
	}
	return nil
}
