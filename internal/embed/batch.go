// ABOUTME: Batcher grouping normalized texts into concurrent backend calls
// ABOUTME: Preserves input order and enforces vector-shape discipline on results
package embed

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/embedworks/vectorpipe/internal/models"
)

// Batcher drives an Embedder over a batch of texts, issuing up to
// concurrency backend calls in parallel. result[i] always embeds input[i].
type Batcher struct {
	embedder    Embedder
	concurrency int
}

// NewBatcher creates a Batcher over the given backend
func NewBatcher(embedder Embedder, concurrency int) *Batcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Batcher{
		embedder:    embedder,
		concurrency: concurrency,
	}
}

// EmbedBatch embeds all texts, splitting them across at most the configured
// number of concurrent backend calls. Any backend failure fails the whole
// batch with a retryable EmbeddingBackendError.
func (b *Batcher) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	// Sub-batch size such that at most `concurrency` calls are needed
	chunkSize := (len(texts) + b.concurrency - 1) / b.concurrency

	vectors := make([][]float64, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for start := 0; start < len(texts); start += chunkSize {
		end := start + chunkSize
		if end > len(texts) {
			end = len(texts)
		}
		offset := start
		chunk := texts[start:end]

		g.Go(func() error {
			result, err := b.embedder.Embed(gctx, chunk)
			if err != nil {
				return err
			}
			if len(result) != len(chunk) {
				return &models.EmbeddingBackendError{
					Err: fmt.Errorf("expected %d vectors, got %d", len(chunk), len(result)),
				}
			}
			for i, vector := range result {
				if len(vector) != b.embedder.Dimension() {
					return &models.EmbeddingBackendError{
						Err: fmt.Errorf("vector %d has dimension %d, want %d",
							offset+i, len(vector), b.embedder.Dimension()),
					}
				}
				vectors[offset+i] = vector
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
