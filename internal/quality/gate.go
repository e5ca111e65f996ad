// ABOUTME: Quality gate validating embedding vectors before acceptance
// ABOUTME: Computes metrics and applies ordered checks, reporting the first violated rule
package quality

import (
	"fmt"
	"math"
)

// Rule names reported on rejection, in evaluation order
const (
	RuleFiniteValues   = "finite_values"
	RuleNormBelowMin   = "norm_below_min"
	RuleNormAboveMax   = "norm_above_max"
	RuleDeadDimensions = "dead_dimensions"
	RuleCoherence      = "coherence"
)

// NearZeroEpsilon is the magnitude below which a component counts as dead
const NearZeroEpsilon = 1e-6

// MaxDeadFraction is the rejection threshold for near-zero components
const MaxDeadFraction = 0.5

// Config holds the numeric thresholds for the gate
type Config struct {
	NormMin            float64
	NormMax            float64
	CoherenceThreshold float64
}

// Metrics are the statistics computed for one vector
type Metrics struct {
	L2Norm           float64 `json:"l2_norm"`
	Mean             float64 `json:"mean"`
	Min              float64 `json:"min"`
	Max              float64 `json:"max"`
	NearZeroFraction float64 `json:"near_zero_fraction"`
	Coherence        float64 `json:"coherence"`
	HasCoherence     bool    `json:"has_coherence"`
}

// Result is the outcome of evaluating one vector
type Result struct {
	Accepted bool
	Metrics  Metrics

	// Set only on rejection
	Rule     string
	Observed float64
	Expected string
}

// RejectionError converts a quality rejection into a retryable error for the
// orchestrator's state machine
type RejectionError struct {
	Rule     string
	Observed float64
	Expected string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("quality gate rejected vector: rule %s, observed %g, expected %s",
		e.Rule, e.Observed, e.Expected)
}

// Retryable returns true: rejections may reflect transient model flakiness.
// Repeated identical rejections are surfaced distinctly by the orchestrator.
func (e *RejectionError) Retryable() bool { return true }

// Err returns the rejection as an error, or nil when accepted
func (r Result) Err() error {
	if r.Accepted {
		return nil
	}
	return &RejectionError{Rule: r.Rule, Observed: r.Observed, Expected: r.Expected}
}

// Evaluate computes metrics for the vector and applies, in order: finite
// values, norm bounds, dead-dimension fraction, and coherence against the
// reference. A nil reference skips the coherence rule (empty corpus
// bootstrap), as does a zero threshold, which disables the rule entirely.
// Pure function of its inputs.
func Evaluate(vector []float64, reference []float64, cfg Config) Result {
	metrics, finite := computeMetrics(vector)

	if reference != nil {
		metrics.Coherence = CosineSimilarity(vector, reference)
		metrics.HasCoherence = true
	}

	result := Result{Metrics: metrics}

	if !finite {
		result.Rule = RuleFiniteValues
		result.Observed = math.NaN()
		result.Expected = "all components finite"
		return result
	}
	if metrics.L2Norm < cfg.NormMin {
		result.Rule = RuleNormBelowMin
		result.Observed = metrics.L2Norm
		result.Expected = fmt.Sprintf(">=%g", cfg.NormMin)
		return result
	}
	if metrics.L2Norm > cfg.NormMax {
		result.Rule = RuleNormAboveMax
		result.Observed = metrics.L2Norm
		result.Expected = fmt.Sprintf("<=%g", cfg.NormMax)
		return result
	}
	if metrics.NearZeroFraction >= MaxDeadFraction {
		result.Rule = RuleDeadDimensions
		result.Observed = metrics.NearZeroFraction
		result.Expected = fmt.Sprintf("<%g", MaxDeadFraction)
		return result
	}
	if cfg.CoherenceThreshold > 0 && metrics.HasCoherence && metrics.Coherence < cfg.CoherenceThreshold {
		result.Rule = RuleCoherence
		result.Observed = metrics.Coherence
		result.Expected = fmt.Sprintf(">=%g", cfg.CoherenceThreshold)
		return result
	}

	result.Accepted = true
	return result
}

// computeMetrics returns the vector statistics and whether all components
// are finite
func computeMetrics(vector []float64) (Metrics, bool) {
	metrics := Metrics{
		Min: math.Inf(1),
		Max: math.Inf(-1),
	}
	if len(vector) == 0 {
		metrics.Min, metrics.Max = 0, 0
		return metrics, true
	}

	finite := true
	var sum, sumSquares float64
	nearZero := 0

	for _, v := range vector {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			finite = false
			continue
		}
		sum += v
		sumSquares += v * v
		if math.Abs(v) < NearZeroEpsilon {
			nearZero++
		}
		if v < metrics.Min {
			metrics.Min = v
		}
		if v > metrics.Max {
			metrics.Max = v
		}
	}

	metrics.L2Norm = math.Sqrt(sumSquares)
	metrics.Mean = sum / float64(len(vector))
	metrics.NearZeroFraction = float64(nearZero) / float64(len(vector))
	if !finite {
		metrics.Min, metrics.Max = math.NaN(), math.NaN()
	}
	return metrics, finite
}

// CosineSimilarity calculates cosine similarity between two vectors.
// Mismatched lengths or zero-magnitude vectors yield 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
