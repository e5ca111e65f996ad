// ABOUTME: CLI command to export pipeline data
// ABOUTME: Writes entities and jobs to YAML or Markdown, vectors to JSON
package commands

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/embedworks/vectorpipe/internal/storage/sqlite"
)

var (
	exportOutput  string
	exportVectors string
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export pipeline data",
		Long: `Export pipeline data for backup or inspection.

Writes entities and jobs to a YAML file (or Markdown when the output
path ends in .md). Stored vectors can be written to a separate JSON
file with --vectors.

Examples:
  vectorpipe export --output backup.yaml
  vectorpipe export --output report.md
  vectorpipe export --output backup.yaml --vectors vectors.json`,
		RunE: runExport,
	}

	cmd.Flags().StringVar(&exportOutput, "output", "vectorpipe-export.yaml", "Output file path (.yaml or .md)")
	cmd.Flags().StringVar(&exportVectors, "vectors", "", "Also export stored vectors to this JSON file")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	p, err := openPipeline()
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	ctx := cmd.Context()
	exporter := sqlite.NewExporter(p.db)

	if strings.HasSuffix(exportOutput, ".md") {
		err = exporter.ExportToMarkdown(ctx, exportOutput)
	} else {
		err = exporter.ExportToYAML(ctx, exportOutput)
	}
	if err != nil {
		return fmt.Errorf("exporting data: %w", err)
	}

	if exportVectors != "" {
		if err := exporter.ExportVectorsToJSON(ctx, exportVectors); err != nil {
			return fmt.Errorf("exporting vectors: %w", err)
		}
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported to %s\n", exportOutput)
		if exportVectors != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Vectors exported to %s\n", exportVectors)
		}
	}
	return nil
}
