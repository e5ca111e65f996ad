// ABOUTME: Embedding job persistence for SQLite
// ABOUTME: Jobs are append-only; status transitions update rows in place
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/embedworks/vectorpipe/internal/models"
)

// JobStore handles embedding job persistence
type JobStore struct {
	db *DB
}

// NewJobStore creates a new JobStore
func NewJobStore(db *DB) *JobStore {
	return &JobStore{db: db}
}

// Create inserts a new job row
func (s *JobStore) Create(ctx context.Context, job *models.EmbeddingJob) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO embedding_jobs
			(job_id, entity_id, entity_type, status, retry_count, created_at, last_processed_at, next_attempt_at, last_error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, job.JobID, job.EntityID, job.EntityType, string(job.Status), job.RetryCount,
		job.CreatedAt, nullTime(job.LastProcessedAt), nullTime(job.NextAttemptAt), nullString(job.LastError))
	if err != nil {
		return &models.StoreUnavailableError{Op: "job create", Err: err}
	}
	return nil
}

// Get retrieves a job by job identifier, nil when absent
func (s *JobStore) Get(ctx context.Context, jobID string) (*models.EmbeddingJob, error) {
	row := s.db.QueryRow(ctx, `
		SELECT job_id, entity_id, entity_type, status, retry_count, created_at, last_processed_at, next_attempt_at, last_error
		FROM embedding_jobs
		WHERE job_id = ?
	`, jobID)
	return scanJob(row)
}

// GetByEntity retrieves the job for an entity identifier, nil when absent
func (s *JobStore) GetByEntity(ctx context.Context, entityID string) (*models.EmbeddingJob, error) {
	row := s.db.QueryRow(ctx, `
		SELECT job_id, entity_id, entity_type, status, retry_count, created_at, last_processed_at, next_attempt_at, last_error
		FROM embedding_jobs
		WHERE entity_id = ?
	`, entityID)
	return scanJob(row)
}

// Update overwrites the mutable fields of an existing job
func (s *JobStore) Update(ctx context.Context, job *models.EmbeddingJob) error {
	_, err := s.db.Exec(ctx, `
		UPDATE embedding_jobs
		SET status = ?, retry_count = ?, last_processed_at = ?, next_attempt_at = ?, last_error = ?
		WHERE job_id = ?
	`, string(job.Status), job.RetryCount, nullTime(job.LastProcessedAt),
		nullTime(job.NextAttemptAt), nullString(job.LastError), job.JobID)
	if err != nil {
		return &models.StoreUnavailableError{Op: "job update", Err: err}
	}
	return nil
}

// FindEligible returns up to limit pending jobs whose next attempt time has
// passed, FIFO by enqueue time
func (s *JobStore) FindEligible(ctx context.Context, now time.Time, limit int) ([]models.EmbeddingJob, error) {
	rows, err := s.db.Query(ctx, `
		SELECT job_id, entity_id, entity_type, status, retry_count, created_at, last_processed_at, next_attempt_at, last_error
		FROM embedding_jobs
		WHERE status = ? AND (next_attempt_at IS NULL OR next_attempt_at <= ?)
		ORDER BY created_at ASC
		LIMIT ?
	`, string(models.StatusPending), now, limit)
	if err != nil {
		return nil, &models.StoreUnavailableError{Op: "job select", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var jobs []models.EmbeddingJob
	for rows.Next() {
		job, err := scanJobRow(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// RevertProcessing returns processing jobs to pending so interrupted work is
// retried cleanly after restart or cancellation
func (s *JobStore) RevertProcessing(ctx context.Context) (int64, error) {
	result, err := s.db.Exec(ctx, `
		UPDATE embedding_jobs
		SET status = ?
		WHERE status = ?
	`, string(models.StatusPending), string(models.StatusProcessing))
	if err != nil {
		return 0, &models.StoreUnavailableError{Op: "job revert", Err: err}
	}
	return result.RowsAffected()
}

// Counts returns the number of jobs per status
func (s *JobStore) Counts(ctx context.Context) (map[models.JobStatus]int64, error) {
	rows, err := s.db.Query(ctx, `
		SELECT status, COUNT(*)
		FROM embedding_jobs
		GROUP BY status
	`)
	if err != nil {
		return nil, &models.StoreUnavailableError{Op: "job counts", Err: err}
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[models.JobStatus]int64)
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[models.JobStatus(status)] = count
	}
	return counts, rows.Err()
}

// scanner abstracts sql.Row and sql.Rows for shared scanning
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row *sql.Row) (*models.EmbeddingJob, error) {
	job, err := scanJobRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return job, err
}

func scanJobRow(row scanner) (*models.EmbeddingJob, error) {
	var (
		job             models.EmbeddingJob
		status          string
		lastProcessedAt sql.NullTime
		nextAttemptAt   sql.NullTime
		lastError       sql.NullString
	)

	err := row.Scan(&job.JobID, &job.EntityID, &job.EntityType, &status, &job.RetryCount,
		&job.CreatedAt, &lastProcessedAt, &nextAttemptAt, &lastError)
	if err != nil {
		return nil, err
	}

	job.Status = models.JobStatus(status)
	if lastProcessedAt.Valid {
		job.LastProcessedAt = lastProcessedAt.Time
	}
	if nextAttemptAt.Valid {
		job.NextAttemptAt = nextAttemptAt.Time
	}
	if lastError.Valid {
		job.LastError = lastError.String
	}
	return &job, nil
}

// nullTime converts a zero time to NULL
func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

// nullString converts an empty string to NULL
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
