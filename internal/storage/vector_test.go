// ABOUTME: Tests for the vector blob codec and distance functions
// ABOUTME: Verifies round-trip fidelity and metric semantics
package storage

import (
	"math"
	"testing"
)

func TestBlobRoundTrip(t *testing.T) {
	vector := []float64{0.1, -2.5, 3.14159, 0, 1e-12}
	got := BlobToVector(VectorToBlob(vector))

	if len(got) != len(vector) {
		t.Fatalf("round-trip length = %d, want %d", len(got), len(vector))
	}
	for i := range vector {
		if got[i] != vector[i] {
			t.Errorf("component %d = %g, want %g", i, got[i], vector[i])
		}
	}
}

func TestDistance_L2(t *testing.T) {
	got := Distance(MetricL2, []float64{0, 0}, []float64{3, 4})
	if got != 5.0 {
		t.Errorf("Distance(l2) = %f, want 5.0", got)
	}

	if d := Distance(MetricL2, []float64{1, 2}, []float64{1, 2}); d != 0 {
		t.Errorf("Distance(l2, identical) = %f, want 0", d)
	}
}

func TestDistance_InnerProduct(t *testing.T) {
	// More aligned vectors must rank closer (smaller distance)
	query := []float64{1, 0}
	aligned := Distance(MetricInnerProduct, query, []float64{2, 0})
	orthogonal := Distance(MetricInnerProduct, query, []float64{0, 2})

	if aligned >= orthogonal {
		t.Errorf("aligned distance %f should be smaller than orthogonal %f", aligned, orthogonal)
	}
	if aligned != -2.0 {
		t.Errorf("Distance(ip) = %f, want -2.0", aligned)
	}
}

func TestDistance_LengthMismatch(t *testing.T) {
	got := Distance(MetricL2, []float64{1}, []float64{1, 2})
	if !math.IsInf(got, 1) {
		t.Errorf("mismatched lengths should rank last, got %f", got)
	}
}
