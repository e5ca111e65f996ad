// ABOUTME: Embedder interface for external embedding backends
// ABOUTME: Backends produce one vector per input text, preserving order
package embed

import "context"

// Embedder converts a batch of normalized texts into embedding vectors.
// Implementations must return exactly one vector per input, in input order,
// and wrap transient failures in models.EmbeddingBackendError.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)

	// Dimension returns the vector length this backend produces
	Dimension() int
}
