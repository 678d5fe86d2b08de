package mathutil

const (
	// Rotations and errors below this size have no meaningful direction.
	axisEpsilon = 1e-9

	// Quaternions shorter than this cannot be renormalized.
	normalizeEpsilon = 1e-12

	// Quaternion half-angle convention: q = (cos(θ/2), axis·sin(θ/2)).
	halfAngleFactor = 2.0
)
