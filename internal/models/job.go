// ABOUTME: EmbeddingJob model and status lifecycle for the ingestion pipeline
// ABOUTME: Jobs form an append-only audit trail; completed and failed are terminal
package models

import "time"

// JobStatus is the lifecycle state of an EmbeddingJob
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether a job in this status can still transition
func (s JobStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// EmbeddingJob identifies one entity awaiting vectorization
type EmbeddingJob struct {
	JobID           string    `json:"job_id"`
	EntityID        string    `json:"entity_id"`
	EntityType      string    `json:"entity_type"`
	Status          JobStatus `json:"status"`
	RetryCount      int       `json:"retry_count"`
	CreatedAt       time.Time `json:"created_at"`
	LastProcessedAt time.Time `json:"last_processed_at,omitempty"`
	NextAttemptAt   time.Time `json:"next_attempt_at,omitempty"`
	LastError       string    `json:"last_error,omitempty"`
}
