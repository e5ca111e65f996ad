// ABOUTME: CLI command to enqueue entities for embedding
// ABOUTME: Accepts text from an argument, a file, or stdin
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/embedworks/vectorpipe/internal/models"
)

var (
	enqueueFile string
	enqueueType string
)

// NewEnqueueCmd creates the enqueue command
func NewEnqueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enqueue <entity-id> [text]",
		Short: "Enqueue an entity for embedding",
		Long: `Enqueue an entity for embedding.

Stores the raw content and registers an embedding job. Enqueueing an
entity that already completed or failed resets its job, which triggers
re-embedding on the next run.

Examples:
  vectorpipe enqueue doc-42 "Quarterly report summary"
  vectorpipe enqueue doc-43 --file report.txt
  vectorpipe enqueue user-7 --type profile "Prefers concise answers"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runEnqueue,
	}

	cmd.Flags().StringVar(&enqueueFile, "file", "", "Read content from file")
	cmd.Flags().StringVar(&enqueueType, "type", "document", "Entity type")

	return cmd
}

func runEnqueue(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	entityID := args[0]

	var content string
	if enqueueFile != "" {
		data, err := os.ReadFile(enqueueFile)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		content = string(data)
	} else if len(args) > 1 {
		content = args[1]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		content = string(data)
	}

	p, err := openPipeline()
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	job, err := p.orch.Enqueue(cmd.Context(), &models.Entity{
		EntityID:   entityID,
		EntityType: enqueueType,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("enqueueing entity: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(job, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Enqueued %s (job: %s, status: %s)\n",
			job.EntityID, job.JobID, job.Status)
	}
	return nil
}
