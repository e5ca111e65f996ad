// ABOUTME: Adaptive batch sizer tuning cycle size from observed performance
// ABOUTME: Grows fast healthy batches, shrinks slow or failure-heavy ones
package core

import (
	"sync"
	"time"

	"github.com/embedworks/vectorpipe/internal/config"
)

// Sizer tuning thresholds
const (
	sizerStep = 16

	// Per-job processing time under which the batch may grow
	growLatency = 80 * time.Millisecond
	// Per-job processing time above which the batch shrinks
	shrinkLatency = 150 * time.Millisecond

	growFailureRate   = 0.005
	shrinkFailureRate = 0.01
)

// BatchSizer adjusts the batch size between cycles within the configured
// bounds, stepping by 16 based on cycle latency and failure rate
type BatchSizer struct {
	mu      sync.Mutex
	current int
}

// NewBatchSizer creates a BatchSizer starting at initial, clamped to bounds
func NewBatchSizer(initial int) *BatchSizer {
	if initial < config.MinBatchSize {
		initial = config.MinBatchSize
	}
	if initial > config.MaxBatchSize {
		initial = config.MaxBatchSize
	}
	return &BatchSizer{current: initial}
}

// Current returns the batch size for the next cycle
func (s *BatchSizer) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Record folds one cycle's outcome into the size for the next cycle
func (s *BatchSizer) Record(elapsed time.Duration, failures, total int) {
	if total <= 0 {
		return
	}

	perJob := elapsed / time.Duration(total)
	failureRate := float64(failures) / float64(total)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case failureRate > shrinkFailureRate || perJob > shrinkLatency:
		s.current -= sizerStep
		if s.current < config.MinBatchSize {
			s.current = config.MinBatchSize
		}
	case failureRate < growFailureRate && perJob < growLatency:
		s.current += sizerStep
		if s.current > config.MaxBatchSize {
			s.current = config.MaxBatchSize
		}
	}
}
