// Package engine implements the blend kernels: direction weights, threshold
// weights, inertial blending, tag synchronization and pose mixing.
package engine

import "math"

// DirectionWeights maps a direction blend parameter to weights over a fan of
// DirectionCount anchor poses. The parameter is clamped to [0, 4]; its
// integer part selects a pair of neighbouring anchors and its fractional
// part interpolates between them. At an integer k exactly one weight,
// out[k], is 1.
func DirectionWeights(param float64, out *[DirectionCount]float64) {
	*out = [DirectionCount]float64{}

	param = min(max(param, 0), maxDirectionParam)
	index, frac := math.Modf(param)

	i := int(index)
	if i >= maxDirectionParam {
		out[maxDirectionParam] = 1
		return
	}
	out[i] = 1 - frac
	out[i+1] = frac
}
