package engine

import (
	"math"

	"github.com/tphakala/go-motion-blend/internal/simdops"
)

// ThresholdWeights computes one weight per threshold for a blend parameter.
// The parameter is clamped to [thresholds[0], thresholds[n-1]]; each weight
// is 1 at its own threshold and ramps linearly to 0 at the neighbouring
// thresholds. Thresholds must be sorted ascending and non-empty, and out must
// have the same length.
func ThresholdWeights(blend float64, thresholds, out []float64) {
	n := len(thresholds)
	blend = min(max(blend, thresholds[0]), thresholds[n-1])
	for i := range n {
		out[i] = weightForIndex(thresholds, i, blend)
	}
}

// weightForIndex returns the weight of threshold index for a clamped blend
// value. Equal neighbouring thresholds return 1 rather than dividing by zero.
func weightForIndex(thresholds []float64, index int, blend float64) float64 {
	n := len(thresholds)
	if blend >= thresholds[index] {
		if index+1 == n {
			return 1
		}
		if thresholds[index+1] < blend {
			return 0
		}
		span := thresholds[index+1] - thresholds[index]
		if span == 0 {
			return 1
		}
		return (thresholds[index+1] - blend) / span
	}

	if index == 0 {
		return 1
	}
	if thresholds[index-1] > blend {
		return 0
	}
	span := thresholds[index] - thresholds[index-1]
	if span == 0 {
		return 1
	}
	return (blend - thresholds[index-1]) / span
}

// EffectiveDuration returns the weighted sum of durations.
// Both slices must have the same length.
func EffectiveDuration(durations, weights []float64) float64 {
	return simdops.Float64Ops().DotProductUnsafe(durations, weights)
}

// MasterIndex returns the index of the largest weight. Ties keep the lowest
// index, and an all-zero weight vector selects index 0.
func MasterIndex(weights []float64) int {
	master := 0
	greatest := 0.0
	for i, w := range weights {
		if w > greatest {
			master = i
			greatest = w
		}
	}
	return master
}

// Wrap maps a normalized time onto the unit cycle [0, 1). Negative times
// wrap backwards, so -0.25 becomes 0.75.
func Wrap(t float64) float64 {
	f := t - math.Floor(t)
	if f >= 1 {
		return 0
	}
	return f
}

// AdvanceNormalizedTime advances a shared normalized time by deltaTime over
// the effective duration and wraps the result. It returns the new time and
// the normalized delta that was applied.
func AdvanceNormalizedTime(t, deltaTime, effectiveDuration float64) (next, deltaRatio float64) {
	deltaRatio = deltaTime / effectiveDuration
	return Wrap(t + deltaRatio), deltaRatio
}
