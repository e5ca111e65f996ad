// ABOUTME: CLI command to show pipeline statistics
// ABOUTME: Reports queue composition and stored vector count
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/embedworks/vectorpipe/internal/models"
)

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show pipeline statistics",
		Long: `Show pipeline statistics.

Reports how many jobs sit in each status and how many vectors the
store holds.

Examples:
  vectorpipe stats
  vectorpipe stats --format json`,
		RunE: runStats,
	}

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	p, err := openPipeline()
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	ctx := cmd.Context()

	counts, err := p.jobs.Counts(ctx)
	if err != nil {
		return fmt.Errorf("counting jobs: %w", err)
	}
	stored, err := p.vectors.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting vectors: %w", err)
	}

	if outputFormat == "json" {
		response := map[string]interface{}{
			"jobs":           counts,
			"stored_vectors": stored,
			"dimension":      p.cfg.Dimension,
			"metric":         p.cfg.Metric,
		}
		jsonData, err := json.MarshalIndent(response, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "METRIC\tVALUE\n")
	fmt.Fprintf(w, "------\t-----\n")
	fmt.Fprintf(w, "pending jobs\t%d\n", counts[models.StatusPending])
	fmt.Fprintf(w, "processing jobs\t%d\n", counts[models.StatusProcessing])
	fmt.Fprintf(w, "completed jobs\t%d\n", counts[models.StatusCompleted])
	fmt.Fprintf(w, "failed jobs\t%d\n", counts[models.StatusFailed])
	fmt.Fprintf(w, "stored vectors\t%d\n", stored)
	fmt.Fprintf(w, "dimension\t%d\n", p.cfg.Dimension)
	fmt.Fprintf(w, "metric\t%s\n", p.cfg.Metric)
	return w.Flush()
}
