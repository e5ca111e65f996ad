// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to enqueue, query, and search via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/embedworks/vectorpipe/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs vectorpipe as an MCP (Model Context Protocol) server over stdio,
exposing enqueue_entity, job_status, search_similar, and pipeline_stats
as tools. The queue is processed in the background while the server
runs, so enqueued entities are embedded without a separate run command.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an agent host)
  vectorpipe mcp

  # Configure in an MCP client config:
  # {
  #   "mcpServers": {
  #     "vectorpipe": {
  #       "command": "vectorpipe",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Println("Warning: OPENAI_API_KEY not set, embedding falls back to the local deterministic embedder")
	}

	p, err := openPipeline()
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	server := mcpserver.NewMCPServer(
		"Vectorpipe Embedding Pipeline",
		"0.1.0",
	)

	mcp.RegisterTools(server, p.orch, p.vectors)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Process the queue in the background. Run returns when the queue
	// drains, so loop until shutdown to pick up newly enqueued work.
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		for ctx.Err() == nil {
			if err := p.orch.Run(ctx); err != nil {
				log.Printf("Queue processing error: %v", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
		}
	}()

	if !quiet {
		log.Println("Vectorpipe MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, gracefully shutting down...")
		}

		// Wait for the background worker to revert in-flight jobs
		<-workerDone

		if err := p.Close(); err != nil {
			log.Printf("Warning: Error closing database: %v", err)
		}

		if !quiet {
			log.Println("Shutdown complete")
		}

	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
