// ABOUTME: Error taxonomy for the embedding pipeline
// ABOUTME: Content errors are terminal; backend and store errors are retryable
package models

import (
	"errors"
	"fmt"
)

// retryable is implemented by errors that warrant a backoff-and-retry cycle
type retryable interface {
	Retryable() bool
}

// IsRetryable reports whether err (or any wrapped error) is a transient
// failure that the orchestrator should retry
func IsRetryable(err error) bool {
	var r retryable
	if errors.As(err, &r) {
		return r.Retryable()
	}
	return false
}

// EmptyContentError indicates an entity yielded no embeddable text after
// normalization. Caller data defect; the job fails immediately.
type EmptyContentError struct {
	EntityID string
}

func (e *EmptyContentError) Error() string {
	return fmt.Sprintf("entity %s has empty content after normalization", e.EntityID)
}

// Retryable always returns false: re-running the normalizer on the same
// entity produces the same empty result.
func (e *EmptyContentError) Retryable() bool { return false }

// EmbeddingBackendError wraps a transient failure from the embedding backend
type EmbeddingBackendError struct {
	Err error
}

func (e *EmbeddingBackendError) Error() string {
	return fmt.Sprintf("embedding backend: %v", e.Err)
}

func (e *EmbeddingBackendError) Unwrap() error { return e.Err }

func (e *EmbeddingBackendError) Retryable() bool { return true }

// StoreUnavailableError wraps a transient failure reaching the vector store
// or job store
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

func (e *StoreUnavailableError) Retryable() bool { return true }
