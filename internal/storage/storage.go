// ABOUTME: Storage interfaces for the embedding pipeline
// ABOUTME: Entity source, job store, and vector store contracts shared by backends
package storage

import (
	"context"
	"time"

	"github.com/embedworks/vectorpipe/internal/models"
)

// EntitySource is a read-only reader over entities needing embedding.
// Re-reads are idempotent; pagination cursors are entity identifiers.
type EntitySource interface {
	// Get retrieves one entity by identifier, nil when absent
	Get(ctx context.Context, entityID string) (*models.Entity, error)

	// List returns up to limit entities with identifiers after afterID,
	// ordered by identifier ascending. Empty afterID starts from the beginning.
	List(ctx context.Context, afterID string, limit int) ([]models.Entity, error)
}

// EntityStore is an EntitySource that also accepts writes
type EntityStore interface {
	EntitySource

	// Put inserts or overwrites an entity, storing its raw content untouched
	Put(ctx context.Context, entity *models.Entity) error
}

// JobStore persists EmbeddingJob state transitions. Jobs are append-only:
// terminal rows stay queryable with their last error.
type JobStore interface {
	// Create inserts a new job
	Create(ctx context.Context, job *models.EmbeddingJob) error

	// Get retrieves a job by job identifier, nil when absent
	Get(ctx context.Context, jobID string) (*models.EmbeddingJob, error)

	// GetByEntity retrieves the job for an entity identifier, nil when absent
	GetByEntity(ctx context.Context, entityID string) (*models.EmbeddingJob, error)

	// Update overwrites the mutable fields of an existing job
	Update(ctx context.Context, job *models.EmbeddingJob) error

	// FindEligible returns up to limit pending jobs whose NextAttemptAt is at
	// or before now, FIFO by enqueue time
	FindEligible(ctx context.Context, now time.Time, limit int) ([]models.EmbeddingJob, error)

	// RevertProcessing returns any processing job to pending. Called on
	// startup and after cancellation so interrupted work is retried cleanly.
	RevertProcessing(ctx context.Context) (int64, error)

	// Counts returns the number of jobs per status
	Counts(ctx context.Context) (map[models.JobStatus]int64, error)
}

// VectorStore persists accepted vectors and serves similarity queries
type VectorStore interface {
	// Upsert inserts or overwrites the record for entityID with a fresh
	// insertion timestamp
	Upsert(ctx context.Context, entityID string, vector []float64, metadata map[string]interface{}) error

	// Get retrieves the record for an entity identifier, nil when absent
	Get(ctx context.Context, entityID string) (*models.VectorRecord, error)

	// Search returns the k records with smallest distance to the query under
	// the store's configured metric, ties broken by insertion timestamp
	// ascending (oldest first)
	Search(ctx context.Context, query []float64, k int) ([]models.SearchResult, error)

	// Count returns the number of stored records
	Count(ctx context.Context) (int64, error)
}
