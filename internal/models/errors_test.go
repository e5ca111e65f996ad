// ABOUTME: Tests for pipeline error taxonomy and retryable classification
// ABOUTME: Verifies errors.As-based classification through wrapping
package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsRetryable_EmptyContent(t *testing.T) {
	err := &EmptyContentError{EntityID: "e1"}
	if IsRetryable(err) {
		t.Error("EmptyContentError should not be retryable")
	}
}

func TestIsRetryable_BackendError(t *testing.T) {
	err := &EmbeddingBackendError{Err: errors.New("connection refused")}
	if !IsRetryable(err) {
		t.Error("EmbeddingBackendError should be retryable")
	}
}

func TestIsRetryable_StoreUnavailable(t *testing.T) {
	err := &StoreUnavailableError{Op: "upsert", Err: errors.New("database locked")}
	if !IsRetryable(err) {
		t.Error("StoreUnavailableError should be retryable")
	}
}

func TestIsRetryable_Wrapped(t *testing.T) {
	inner := &EmbeddingBackendError{Err: errors.New("timeout")}
	wrapped := fmt.Errorf("batch 3: %w", inner)
	if !IsRetryable(wrapped) {
		t.Error("wrapped EmbeddingBackendError should still be retryable")
	}
}

func TestIsRetryable_PlainError(t *testing.T) {
	if IsRetryable(errors.New("something else")) {
		t.Error("plain errors should not be classified as retryable")
	}
}

func TestStoreUnavailableError_Unwrap(t *testing.T) {
	inner := errors.New("no such host")
	err := &StoreUnavailableError{Op: "search", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("StoreUnavailableError should unwrap to inner error")
	}
}

func TestJobStatus_IsTerminal(t *testing.T) {
	cases := []struct {
		status JobStatus
		want   bool
	}{
		{StatusPending, false},
		{StatusProcessing, false},
		{StatusCompleted, true},
		{StatusFailed, true},
	}
	for _, tc := range cases {
		if got := tc.status.IsTerminal(); got != tc.want {
			t.Errorf("IsTerminal(%s) = %v, want %v", tc.status, got, tc.want)
		}
	}
}
