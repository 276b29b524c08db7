package engine

import "math"

// The bounded-variance contract: identical vehicle + mode + baseline inputs
// submitted on separate occasions should yield range midpoints within the
// mode's tolerance of each other. The engine holds no state across requests,
// so the guarantee rests on deterministic instruction construction and the
// fixed low sampling temperature. It is a statistical property measured over
// repeated calls, not a per-call assertion.

// MidpointDrift returns the largest relative midpoint difference across the
// platforms the two results share. Results for different modes, or with no
// shared platforms, drift by +Inf.
func MidpointDrift(a, b *ValuationResult) float64 {
	if a == nil || b == nil || a.Mode != b.Mode {
		return math.Inf(1)
	}
	max, shared := 0.0, false
	for name, ra := range a.Values {
		rb, ok := b.Values[name]
		if !ok {
			continue
		}
		shared = true
		ma := (ra.Low + ra.High) / 2
		mb := (rb.Low + rb.High) / 2
		ref := math.Max(ma, mb)
		if ref == 0 {
			continue
		}
		if d := math.Abs(ma-mb) / ref; d > max {
			max = d
		}
	}
	if !shared {
		return math.Inf(1)
	}
	return max
}

// WithinTolerance reports whether two results for the same input stayed
// inside the mode's documented drift bound.
func WithinTolerance(a, b *ValuationResult) bool {
	if a == nil || b == nil {
		return false
	}
	return MidpointDrift(a, b) <= PolicyFor(a.Mode).Tolerance
}
