// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Defines verbose, quiet, and format flags shared by all commands
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vectorpipe",
		Short: "Batched embedding pipeline with quality gating",
		Long: `vectorpipe turns entity text into stored vectors.

Entities are enqueued, normalized, embedded in adaptive batches, checked
by a quality gate, and written to a local vector store. Failed attempts
retry with exponential backoff until a configured bound.

Configuration comes from VECTORPIPE_* environment variables or a .env
file in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, json")

	cmd.AddCommand(NewEnqueueCmd())
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
