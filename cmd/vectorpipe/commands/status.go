// ABOUTME: CLI command to inspect embedding job state
// ABOUTME: Shows one entity's job or per-status queue counts
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/embedworks/vectorpipe/internal/models"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [entity-id]",
		Short: "Show job status",
		Long: `Show embedding job status.

With an entity identifier, shows that entity's job in detail. Without
arguments, shows how many jobs sit in each status.

Examples:
  vectorpipe status
  vectorpipe status doc-42
  vectorpipe status --format json doc-42`,
		Args: cobra.MaximumNArgs(1),
		RunE: runStatus,
	}

	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	p, err := openPipeline()
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	ctx := cmd.Context()

	if len(args) == 0 {
		counts, err := p.jobs.Counts(ctx)
		if err != nil {
			return fmt.Errorf("counting jobs: %w", err)
		}

		if outputFormat == "json" {
			jsonData, err := json.MarshalIndent(counts, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "STATUS\tJOBS\n")
		fmt.Fprintf(w, "------\t----\n")
		for _, status := range []models.JobStatus{
			models.StatusPending, models.StatusProcessing,
			models.StatusCompleted, models.StatusFailed,
		} {
			fmt.Fprintf(w, "%s\t%d\n", status, counts[status])
		}
		return w.Flush()
	}

	job, err := p.jobs.GetByEntity(ctx, args[0])
	if err != nil {
		return fmt.Errorf("looking up job: %w", err)
	}
	if job == nil {
		return fmt.Errorf("no job found for entity %s", args[0])
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(job, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Entity:     %s (%s)\n", job.EntityID, job.EntityType)
	fmt.Fprintf(out, "Job:        %s\n", job.JobID)
	fmt.Fprintf(out, "Status:     %s\n", job.Status)
	fmt.Fprintf(out, "Retries:    %d\n", job.RetryCount)
	fmt.Fprintf(out, "Enqueued:   %s\n", formatTime(job.CreatedAt))
	fmt.Fprintf(out, "Processed:  %s\n", formatTime(job.LastProcessedAt))
	if !job.NextAttemptAt.IsZero() && job.Status == models.StatusPending {
		fmt.Fprintf(out, "Next try:   %s\n", job.NextAttemptAt.Format("2006-01-02 15:04:05"))
	}
	if job.LastError != "" {
		fmt.Fprintf(out, "Last error: %s\n", job.LastError)
	}
	return nil
}
