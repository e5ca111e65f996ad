// ABOUTME: Vector blob codec and distance functions shared by store backends
// ABOUTME: Vectors are stored as little-endian float64 blobs
package storage

import (
	"encoding/binary"
	"math"
)

// Distance metrics
const (
	MetricL2           = "l2"
	MetricInnerProduct = "ip"
)

// VectorToBlob converts a float64 slice to a binary blob
func VectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// BlobToVector converts a binary blob back to a float64 slice
func BlobToVector(blob []byte) []float64 {
	count := len(blob) / 8
	vector := make([]float64, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint64(blob[i*8:])
		vector[i] = math.Float64frombits(bits)
	}
	return vector
}

// Distance computes the ranking distance between two vectors under the given
// metric: Euclidean distance for l2, negated dot product for ip (so smaller
// is always closer). Mismatched lengths rank last.
func Distance(metric string, a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	switch metric {
	case MetricInnerProduct:
		var dot float64
		for i := range a {
			dot += a[i] * b[i]
		}
		return -dot
	default:
		var sum float64
		for i := range a {
			d := a[i] - b[i]
			sum += d * d
		}
		return math.Sqrt(sum)
	}
}
