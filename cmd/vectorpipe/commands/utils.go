// ABOUTME: Shared utility functions and pipeline setup for CLI commands
// ABOUTME: Consolidates config loading, store wiring, and formatting helpers
package commands

import (
	"fmt"
	"log"
	"time"

	"github.com/embedworks/vectorpipe/internal/config"
	"github.com/embedworks/vectorpipe/internal/core"
	"github.com/embedworks/vectorpipe/internal/embed"
	"github.com/embedworks/vectorpipe/internal/storage/sqlite"
)

// pipeline bundles everything a command needs to operate on the queue
type pipeline struct {
	cfg      *config.Config
	db       *sqlite.DB
	entities *sqlite.EntityStore
	jobs     *sqlite.JobStore
	vectors  *sqlite.VectorStore
	orch     *core.Orchestrator
}

func (p *pipeline) Close() error {
	return p.db.Close()
}

// openPipeline loads configuration, opens the database, and wires the
// orchestrator. Without an OpenAI key it falls back to the deterministic
// local embedder, which is enough for offline use and testing.
func openPipeline() (*pipeline, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	entities := sqlite.NewEntityStore(db)
	jobs := sqlite.NewJobStore(db)
	vectors := sqlite.NewVectorStore(db, cfg.Metric)

	var embedder embed.Embedder
	if cfg.OpenAIKey != "" {
		embedder, err = embed.NewOpenAIEmbedder(embed.OpenAIConfig{
			APIKey:      cfg.OpenAIKey,
			Model:       cfg.EmbeddingModel,
			Dimension:   cfg.Dimension,
			CallTimeout: cfg.CallTimeout,
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("initializing embedder: %w", err)
		}
	} else {
		if verbose {
			log.Println("OPENAI_API_KEY not set, using local deterministic embedder")
		}
		embedder = embed.NewMockEmbedder(cfg.Dimension)
	}

	return &pipeline{
		cfg:      cfg,
		db:       db,
		entities: entities,
		jobs:     jobs,
		vectors:  vectors,
		orch:     core.NewOrchestrator(cfg, entities, jobs, vectors, embedder),
	}, nil
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	diff := time.Since(t)
	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	} else if diff < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	} else if diff < 7*24*time.Hour {
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
	return t.Format("2006-01-02")
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
