// ABOUTME: Tests for the quality gate rules and metrics
// ABOUTME: Covers finite-value, norm-bound, dead-dimension, and coherence checks
package quality

import (
	"math"
	"testing"

	"github.com/embedworks/vectorpipe/internal/models"
)

func defaultConfig() Config {
	return Config{NormMin: 0.1, NormMax: 10.0, CoherenceThreshold: 0.95}
}

func TestEvaluate_AcceptsUnitVectors(t *testing.T) {
	// Stub embedder scenario: fixed 4-dimensional unit vectors
	vectors := [][]float64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
	}
	cfg := Config{NormMin: 0.5, NormMax: 2.0, CoherenceThreshold: 0.0}

	for i, vector := range vectors {
		result := Evaluate(vector, nil, cfg)
		if !result.Accepted {
			t.Errorf("vector %d rejected: rule %s, observed %g", i, result.Rule, result.Observed)
		}
		if result.Metrics.L2Norm != 1.0 {
			t.Errorf("vector %d L2Norm = %f, want 1.0", i, result.Metrics.L2Norm)
		}
	}
}

func TestEvaluate_RejectsNaN(t *testing.T) {
	vector := []float64{0.5, math.NaN(), 0.5, 0.5}
	result := Evaluate(vector, nil, defaultConfig())

	if result.Accepted {
		t.Fatal("vector with NaN should be rejected")
	}
	if result.Rule != RuleFiniteValues {
		t.Errorf("Rule = %s, want %s", result.Rule, RuleFiniteValues)
	}
}

func TestEvaluate_RejectsInfinity(t *testing.T) {
	for _, bad := range []float64{math.Inf(1), math.Inf(-1)} {
		vector := []float64{0.5, bad, 0.5, 0.5}
		result := Evaluate(vector, nil, defaultConfig())

		if result.Accepted {
			t.Fatal("vector with Inf should be rejected")
		}
		if result.Rule != RuleFiniteValues {
			t.Errorf("Rule = %s, want %s", result.Rule, RuleFiniteValues)
		}
	}
}

func TestEvaluate_FiniteRuleWinsOverNorm(t *testing.T) {
	// A NaN component must report finite_values regardless of other metrics
	vector := []float64{math.NaN(), 0, 0, 0}
	result := Evaluate(vector, nil, defaultConfig())

	if result.Rule != RuleFiniteValues {
		t.Errorf("Rule = %s, want %s (finite check short-circuits)", result.Rule, RuleFiniteValues)
	}
}

func TestEvaluate_RejectsZeroVector(t *testing.T) {
	vector := []float64{0, 0, 0, 0}
	result := Evaluate(vector, nil, defaultConfig())

	if result.Accepted {
		t.Fatal("zero vector should be rejected")
	}
	if result.Rule != RuleNormBelowMin {
		t.Errorf("Rule = %s, want %s", result.Rule, RuleNormBelowMin)
	}
	if result.Observed != 0.0 {
		t.Errorf("Observed = %g, want 0.0", result.Observed)
	}
	if result.Expected != ">=0.1" {
		t.Errorf("Expected = %q, want %q", result.Expected, ">=0.1")
	}
}

func TestEvaluate_RejectsExplodedVector(t *testing.T) {
	vector := []float64{100, 100, 100, 100}
	result := Evaluate(vector, nil, defaultConfig())

	if result.Accepted {
		t.Fatal("exploded vector should be rejected")
	}
	if result.Rule != RuleNormAboveMax {
		t.Errorf("Rule = %s, want %s", result.Rule, RuleNormAboveMax)
	}
}

func TestEvaluate_RejectsDeadDimensions(t *testing.T) {
	// 3 of 4 components near zero: fraction 0.75 >= 0.5
	vector := []float64{1.0, 1e-9, 0, 1e-8}
	result := Evaluate(vector, nil, defaultConfig())

	if result.Accepted {
		t.Fatal("mostly-dead vector should be rejected")
	}
	if result.Rule != RuleDeadDimensions {
		t.Errorf("Rule = %s, want %s", result.Rule, RuleDeadDimensions)
	}
	if result.Observed != 0.75 {
		t.Errorf("Observed = %g, want 0.75", result.Observed)
	}
}

func TestEvaluate_RejectsLowCoherence(t *testing.T) {
	vector := []float64{1, 0, 0, 0}
	reference := []float64{0, 1, 0, 0} // orthogonal: cosine 0
	result := Evaluate(vector, reference, defaultConfig())

	if result.Accepted {
		t.Fatal("orthogonal vector should fail coherence")
	}
	if result.Rule != RuleCoherence {
		t.Errorf("Rule = %s, want %s", result.Rule, RuleCoherence)
	}
	if result.Observed != 0.0 {
		t.Errorf("Observed = %g, want 0.0", result.Observed)
	}
}

func TestEvaluate_AcceptsCoherentVector(t *testing.T) {
	vector := []float64{1, 0.01, 0.01, 0.01}
	reference := []float64{1, 0, 0, 0}
	result := Evaluate(vector, reference, defaultConfig())

	if !result.Accepted {
		t.Fatalf("near-parallel vector rejected: rule %s, observed %g", result.Rule, result.Observed)
	}
	if !result.Metrics.HasCoherence {
		t.Error("HasCoherence = false with a reference supplied")
	}
}

func TestEvaluate_NilReferenceSkipsCoherence(t *testing.T) {
	vector := []float64{1, 0.2, 0.3, 0.4}
	result := Evaluate(vector, nil, defaultConfig())

	if !result.Accepted {
		t.Fatalf("vector rejected without reference: rule %s", result.Rule)
	}
	if result.Metrics.HasCoherence {
		t.Error("HasCoherence = true with nil reference")
	}
}

func TestEvaluate_ZeroThresholdDisablesCoherence(t *testing.T) {
	vector := []float64{1, 0.2, 0.3, 0.4}
	reference := []float64{-1, -0.2, -0.3, -0.4} // cosine -1
	cfg := Config{NormMin: 0.1, NormMax: 10.0, CoherenceThreshold: 0}

	result := Evaluate(vector, reference, cfg)
	if !result.Accepted {
		t.Fatalf("vector rejected with coherence disabled: rule %s", result.Rule)
	}
	if !result.Metrics.HasCoherence {
		t.Error("metrics should still report coherence even when the rule is off")
	}
}

func TestEvaluate_Metrics(t *testing.T) {
	vector := []float64{3, 4, 0, 0}
	result := Evaluate(vector, nil, Config{NormMin: 0.1, NormMax: 10.0})

	m := result.Metrics
	if m.L2Norm != 5.0 {
		t.Errorf("L2Norm = %f, want 5.0", m.L2Norm)
	}
	if m.Mean != 1.75 {
		t.Errorf("Mean = %f, want 1.75", m.Mean)
	}
	if m.Min != 0 || m.Max != 4 {
		t.Errorf("Min/Max = %f/%f, want 0/4", m.Min, m.Max)
	}
	if m.NearZeroFraction != 0.5 {
		t.Errorf("NearZeroFraction = %f, want 0.5", m.NearZeroFraction)
	}
}

func TestResult_ErrRetryable(t *testing.T) {
	rejected := Evaluate([]float64{0, 0, 0, 0}, nil, defaultConfig())
	err := rejected.Err()
	if err == nil {
		t.Fatal("rejection should yield an error")
	}
	if !models.IsRetryable(err) {
		t.Error("quality rejection should be retryable")
	}

	accepted := Evaluate([]float64{1, 0, 0, 0}, nil, defaultConfig())
	if accepted.Err() != nil {
		t.Errorf("acceptance should yield nil error, got %v", accepted.Err())
	}
}

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1.0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0.0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1.0},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0.0},
		{"length mismatch", []float64{1, 2}, []float64{1, 2, 3}, 0.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CosineSimilarity(tc.a, tc.b)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("CosineSimilarity() = %f, want %f", got, tc.want)
			}
		})
	}
}
