// ABOUTME: CLI command for vector similarity search
// ABOUTME: Finds stored entities nearest to a given entity's vector
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	searchLimit int
)

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <entity-id>",
		Short: "Find similar entities",
		Long: `Find entities whose stored vectors are nearest to the given entity.

Distances use the configured metric (VECTORPIPE_METRIC); smaller is
more similar for both l2 and ip.

Examples:
  vectorpipe search doc-42
  vectorpipe search --limit 10 doc-42
  vectorpipe search --format json doc-42`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 5, "Maximum results to return")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	entityID := args[0]

	p, err := openPipeline()
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	ctx := cmd.Context()

	anchor, err := p.vectors.Get(ctx, entityID)
	if err != nil {
		return fmt.Errorf("looking up vector: %w", err)
	}
	if anchor == nil {
		return fmt.Errorf("entity %s has no stored vector", entityID)
	}

	// One extra so the anchor itself can be dropped from the results
	results, err := p.vectors.Search(ctx, anchor.Vector, searchLimit+1)
	if err != nil {
		return fmt.Errorf("searching vectors: %w", err)
	}

	matches := results[:0]
	for _, result := range results {
		if result.EntityID == entityID {
			continue
		}
		if len(matches) == searchLimit {
			break
		}
		matches = append(matches, result)
	}

	if len(matches) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No similar entities found for: %s\n", entityID)
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(matches, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "DISTANCE\tENTITY\tTYPE\n")
	fmt.Fprintf(w, "--------\t------\t----\n")
	for _, match := range matches {
		entityType, _ := match.Metadata["entity_type"].(string)
		if entityType == "" {
			entityType = "(unknown)"
		}
		fmt.Fprintf(w, "%.4f\t%s\t%s\n",
			match.Distance,
			truncate(match.EntityID, 40),
			truncate(entityType, 20))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(matches))
	}
	return nil
}
