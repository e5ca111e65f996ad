// ABOUTME: Job orchestrator driving batch cycles through the embedding pipeline
// ABOUTME: Owns the job state machine, retry/backoff, and cooperative cancellation
package core

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/embedworks/vectorpipe/internal/config"
	"github.com/embedworks/vectorpipe/internal/embed"
	"github.com/embedworks/vectorpipe/internal/models"
	"github.com/embedworks/vectorpipe/internal/normalize"
	"github.com/embedworks/vectorpipe/internal/quality"
	"github.com/embedworks/vectorpipe/internal/storage"
	"github.com/embedworks/vectorpipe/internal/util"
)

// Stats are cumulative pipeline counters
type Stats struct {
	Cycles    int64 `json:"cycles"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
	Retried   int64 `json:"retried"`
	Rejected  int64 `json:"rejected"`
}

// Orchestrator sequences the pipeline: it pulls eligible jobs, normalizes
// their entities, embeds them in batches, gates each vector, and persists
// accepted vectors. Every job ends in completed or failed; nothing is
// silently dropped.
type Orchestrator struct {
	cfg      *config.Config
	source   storage.EntityStore
	jobs     storage.JobStore
	vectors  storage.VectorStore
	batcher  *embed.Batcher
	gate     quality.Config
	centroid *Centroid
	sizer    *BatchSizer

	// PollInterval is how long Run sleeps when pending jobs exist but none
	// are eligible yet (all backing off)
	PollInterval time.Duration

	mu    sync.Mutex
	stats Stats
}

// NewOrchestrator wires the pipeline components together
func NewOrchestrator(cfg *config.Config, source storage.EntityStore, jobs storage.JobStore, vectors storage.VectorStore, embedder embed.Embedder) *Orchestrator {
	return &Orchestrator{
		cfg:     cfg,
		source:  source,
		jobs:    jobs,
		vectors: vectors,
		batcher: embed.NewBatcher(embedder, cfg.ConcurrencyLimit),
		gate: quality.Config{
			NormMin:            cfg.NormMin,
			NormMax:            cfg.NormMax,
			CoherenceThreshold: cfg.CoherenceThreshold,
		},
		centroid:     NewCentroid(cfg.Dimension, DefaultCentroidWindow),
		sizer:        NewBatchSizer(cfg.BatchSize),
		PollInterval: 500 * time.Millisecond,
	}
}

// Enqueue registers an entity for vectorization. An existing non-terminal
// job is returned unchanged (idempotent); a terminal job is reset to pending,
// which is the explicit re-embedding flow.
func (o *Orchestrator) Enqueue(ctx context.Context, entity *models.Entity) (*models.EmbeddingJob, error) {
	if entity.EntityID == "" {
		return nil, fmt.Errorf("entity identifier is required")
	}

	if err := o.source.Put(ctx, entity); err != nil {
		return nil, fmt.Errorf("storing entity: %w", err)
	}

	existing, err := o.jobs.GetByEntity(ctx, entity.EntityID)
	if err != nil {
		return nil, fmt.Errorf("looking up job: %w", err)
	}

	if existing != nil {
		if !existing.Status.IsTerminal() {
			return existing, nil
		}
		// Re-embedding: reset the terminal job
		existing.Status = models.StatusPending
		existing.RetryCount = 0
		existing.LastError = ""
		existing.NextAttemptAt = time.Time{}
		if err := o.jobs.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("resetting job: %w", err)
		}
		return existing, nil
	}

	job := &models.EmbeddingJob{
		JobID:      uuid.New().String(),
		EntityID:   entity.EntityID,
		EntityType: entity.EntityType,
		Status:     models.StatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	if err := o.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}
	return job, nil
}

// JobStatus returns the job for an entity identifier, nil when unknown
func (o *Orchestrator) JobStatus(ctx context.Context, entityID string) (*models.EmbeddingJob, error) {
	return o.jobs.GetByEntity(ctx, entityID)
}

// Stats returns a snapshot of the cumulative pipeline counters
func (o *Orchestrator) Stats() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stats
}

// Run drives batch cycles until the queue drains or ctx is canceled.
// On cancellation, in-flight work finishes its cycle and any job still
// marked processing reverts to pending for a clean restart.
func (o *Orchestrator) Run(ctx context.Context) error {
	// Recover jobs interrupted by a previous shutdown
	if reverted, err := o.jobs.RevertProcessing(ctx); err != nil {
		return fmt.Errorf("reverting interrupted jobs: %w", err)
	} else if reverted > 0 {
		log.Printf("[Orchestrator] Reverted %d interrupted jobs to pending", reverted)
	}

	for {
		if ctx.Err() != nil {
			return o.shutdown()
		}

		processed, err := o.RunCycle(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return o.shutdown()
			}
			return err
		}
		if processed > 0 {
			continue
		}

		// Nothing eligible; stop when no pending work remains
		counts, err := o.jobs.Counts(ctx)
		if err != nil {
			return fmt.Errorf("counting jobs: %w", err)
		}
		if counts[models.StatusPending] == 0 {
			return nil
		}

		// Pending jobs are all backing off; wait and re-check
		select {
		case <-ctx.Done():
			return o.shutdown()
		case <-time.After(o.PollInterval):
		}
	}
}

// shutdown reverts processing jobs to pending after cancellation
func (o *Orchestrator) shutdown() error {
	// Fresh context: the run context is already canceled
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reverted, err := o.jobs.RevertProcessing(ctx)
	if err != nil {
		return fmt.Errorf("reverting jobs on shutdown: %w", err)
	}
	if reverted > 0 {
		log.Printf("[Orchestrator] Canceled: reverted %d processing jobs to pending", reverted)
	}
	return nil
}

// RunCycle processes one batch of eligible jobs and returns how many jobs
// it attempted. A return of 0 means nothing was eligible.
func (o *Orchestrator) RunCycle(ctx context.Context) (int, error) {
	started := time.Now()

	batch, err := o.jobs.FindEligible(ctx, time.Now().UTC(), o.sizer.Current())
	if err != nil {
		return 0, fmt.Errorf("selecting jobs: %w", err)
	}
	if len(batch) == 0 {
		return 0, nil
	}

	// Claim the batch. The job store holds one row per entity, so marking
	// processing here guarantees at most one in-flight job per entity.
	for i := range batch {
		batch[i].Status = models.StatusProcessing
		if err := o.jobs.Update(ctx, &batch[i]); err != nil {
			return 0, fmt.Errorf("claiming job %s: %w", batch[i].JobID, err)
		}
	}

	failures := o.processBatch(ctx, batch)

	o.mu.Lock()
	o.stats.Cycles++
	o.mu.Unlock()
	o.sizer.Record(time.Since(started), failures, len(batch))

	return len(batch), nil
}

// processBatch runs normalize → embed → gate → upsert for one claimed batch
// and converts every failure into a job state transition. Returns how many
// jobs did not complete this cycle.
func (o *Orchestrator) processBatch(ctx context.Context, batch []models.EmbeddingJob) int {
	failures := 0

	// Normalize; jobs that fail here never reach the embedder
	texts := make([]string, 0, len(batch))
	live := make([]*models.EmbeddingJob, 0, len(batch))
	for i := range batch {
		job := &batch[i]
		text, err := o.normalizeJob(ctx, job)
		if err != nil {
			o.recordFailure(ctx, job, err)
			failures++
			continue
		}
		texts = append(texts, text)
		live = append(live, job)
	}
	if len(live) == 0 {
		return failures
	}

	// Embed the surviving jobs; a backend error fails the whole batch and
	// each job retries individually
	vectors, err := o.batcher.EmbedBatch(ctx, texts)
	if err != nil {
		log.Printf("[Orchestrator] Batch of %d failed: %v", len(live), err)
		for _, job := range live {
			o.recordFailure(ctx, job, err)
			failures++
		}
		return failures
	}

	// Gate and persist; vectors[i] embeds texts[i] which belongs to live[i]
	for i, job := range live {
		if err := o.acceptVector(ctx, job, vectors[i], len(texts[i])); err != nil {
			o.recordFailure(ctx, job, err)
			failures++
			continue
		}
		o.complete(ctx, job)
	}
	return failures
}

// normalizeJob fetches the job's entity and produces its normalized text
func (o *Orchestrator) normalizeJob(ctx context.Context, job *models.EmbeddingJob) (string, error) {
	entity, err := o.source.Get(ctx, job.EntityID)
	if err != nil {
		return "", err
	}
	if entity == nil {
		// Missing source data cannot heal on retry
		return "", &models.EmptyContentError{EntityID: job.EntityID}
	}
	return normalize.Entity(entity)
}

// acceptVector gates one vector and upserts it with its quality metrics
func (o *Orchestrator) acceptVector(ctx context.Context, job *models.EmbeddingJob, vector []float64, contentLen int) error {
	result := quality.Evaluate(vector, o.centroid.Reference(), o.gate)
	if err := result.Err(); err != nil {
		o.mu.Lock()
		o.stats.Rejected++
		o.mu.Unlock()

		// A repeat of the same rejection points at the data or model, not
		// transient noise; surface it distinctly
		if job.LastError == err.Error() {
			log.Printf("[Orchestrator] Job %s rejected identically again (attempt %d): %v",
				job.JobID, job.RetryCount+1, err)
		}
		return err
	}

	metadata := map[string]interface{}{
		"entity_type":     job.EntityType,
		"content_length":  contentLen,
		"quality_metrics": result.Metrics,
	}
	if err := o.vectors.Upsert(ctx, job.EntityID, vector, metadata); err != nil {
		return err
	}

	o.centroid.Add(vector)
	return nil
}

// complete marks a job completed
func (o *Orchestrator) complete(ctx context.Context, job *models.EmbeddingJob) {
	job.Status = models.StatusCompleted
	job.LastError = ""
	job.LastProcessedAt = time.Now().UTC()
	if err := o.jobs.Update(ctx, job); err != nil {
		log.Printf("[Orchestrator] Failed to mark job %s completed: %v", job.JobID, err)
		return
	}

	o.mu.Lock()
	o.stats.Completed++
	o.mu.Unlock()
}

// recordFailure applies the state machine to a failed attempt: retryable
// errors below the retry limit go back to pending with backoff; everything
// else is terminal with the error recorded verbatim.
func (o *Orchestrator) recordFailure(ctx context.Context, job *models.EmbeddingJob, cause error) {
	now := time.Now().UTC()
	job.LastProcessedAt = now
	job.LastError = cause.Error()

	retryable := models.IsRetryable(cause) && o.cfg.MaxRetries > 0
	if retryable {
		job.RetryCount++
	}

	if retryable && job.RetryCount < o.cfg.MaxRetries {
		job.Status = models.StatusPending
		job.NextAttemptAt = now.Add(util.CalculateBackoff(o.cfg.RetryDelay, job.RetryCount, o.cfg.BackoffCap))

		o.mu.Lock()
		o.stats.Retried++
		o.mu.Unlock()
	} else {
		job.Status = models.StatusFailed
		log.Printf("[Orchestrator] Job %s failed permanently after %d attempts: %v",
			job.JobID, job.RetryCount, cause)

		o.mu.Lock()
		o.stats.Failed++
		o.mu.Unlock()
	}

	if err := o.jobs.Update(ctx, job); err != nil {
		log.Printf("[Orchestrator] Failed to update job %s: %v", job.JobID, err)
	}
}
