// ABOUTME: Rolling centroid of recently accepted vectors
// ABOUTME: Serves as the coherence reference for the quality gate
package core

import "sync"

// DefaultCentroidWindow is how many accepted vectors the centroid remembers
const DefaultCentroidWindow = 100

// Centroid maintains the mean of the last N accepted vectors. It is the
// coherence reference handed to the quality gate; an empty centroid yields
// a nil reference so the first accepted vectors bootstrap the corpus.
type Centroid struct {
	mu        sync.Mutex
	dimension int
	window    int
	vectors   [][]float64
	sum       []float64
}

// NewCentroid creates a Centroid over vectors of the given dimension
func NewCentroid(dimension, window int) *Centroid {
	if window <= 0 {
		window = DefaultCentroidWindow
	}
	return &Centroid{
		dimension: dimension,
		window:    window,
		sum:       make([]float64, dimension),
	}
}

// Add records an accepted vector, evicting the oldest when the window is full
func (c *Centroid) Add(vector []float64) {
	if len(vector) != c.dimension {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.vectors) == c.window {
		oldest := c.vectors[0]
		c.vectors = c.vectors[1:]
		for i, v := range oldest {
			c.sum[i] -= v
		}
	}

	kept := make([]float64, len(vector))
	copy(kept, vector)
	c.vectors = append(c.vectors, kept)
	for i, v := range kept {
		c.sum[i] += v
	}
}

// Reference returns the current mean vector, or nil when no vectors have
// been accepted yet
func (c *Centroid) Reference() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.vectors) == 0 {
		return nil
	}

	mean := make([]float64, c.dimension)
	n := float64(len(c.vectors))
	for i, v := range c.sum {
		mean[i] = v / n
	}
	return mean
}

// Len returns how many vectors the window currently holds
func (c *Centroid) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.vectors)
}
