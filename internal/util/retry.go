// ABOUTME: Retry utilities for backend calls with exponential backoff
// ABOUTME: Shared by the embedding backend and job orchestrator for consistent retry behavior
package util

import (
	"math/rand/v2"
	"time"
)

// DefaultBackoffCap bounds backoff growth when no cap is configured
const DefaultBackoffCap = 30 * time.Second

// CalculateBackoff returns exponential backoff with jitter.
// Base delay is doubled each attempt, with random jitter up to 25%,
// capped at maxDelay (DefaultBackoffCap when maxDelay <= 0).
func CalculateBackoff(baseDelay time.Duration, attempt int, maxDelay time.Duration) time.Duration {
	if attempt <= 0 {
		return 0
	}
	if maxDelay <= 0 {
		maxDelay = DefaultBackoffCap
	}
	// Cap attempt to avoid overflow in bit shift (max 30 for safety)
	if attempt > 30 {
		attempt = 30
	}
	// Exponential: 2^attempt * base
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > maxDelay || backoff <= 0 {
		backoff = maxDelay
	}
	// Add jitter: -25% to +25% using auto-seeded math/rand/v2
	jitter := time.Duration(rand.Int64N(int64(backoff)/2)) - backoff/4
	return backoff + jitter
}
