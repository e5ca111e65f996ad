// ABOUTME: Deterministic mock embedder for tests and offline runs
// ABOUTME: Hash-seeded unit vectors so the same text always embeds identically
package embed

import (
	"context"
	"crypto/md5"
	"encoding/binary"
	"math"
)

// MockEmbedder produces deterministic embeddings without a network backend.
// The same text always yields the same unit-length vector.
type MockEmbedder struct {
	dimension int
}

// NewMockEmbedder creates a MockEmbedder with the given dimension
func NewMockEmbedder(dimension int) *MockEmbedder {
	if dimension <= 0 {
		dimension = 128
	}
	return &MockEmbedder{dimension: dimension}
}

// Dimension returns the configured vector length
func (e *MockEmbedder) Dimension() int {
	return e.dimension
}

// Embed generates one deterministic vector per input text
func (e *MockEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = e.embedOne(text)
	}
	return vectors, nil
}

// embedOne derives a unit vector from the MD5 hash of the text
func (e *MockEmbedder) embedOne(text string) []float64 {
	hash := md5.Sum([]byte(text))
	vector := make([]float64, e.dimension)

	for i := 0; i < e.dimension; i++ {
		// Wrap around the hash, mixing in the dimension index
		hashIdx := (i * 4) % (len(hash) - 4)
		seed := binary.LittleEndian.Uint32(hash[hashIdx:]) + uint32(i)
		// Value in [-1, 1)
		vector[i] = float64(seed%2000)/1000.0 - 1.0
	}

	normalize(vector)
	return vector
}

// normalize scales the vector to unit length in place
func normalize(vector []float64) {
	var sumSquares float64
	for _, v := range vector {
		sumSquares += v * v
	}
	if sumSquares == 0 {
		vector[0] = 1.0
		return
	}
	norm := math.Sqrt(sumSquares)
	for i := range vector {
		vector[i] /= norm
	}
}
