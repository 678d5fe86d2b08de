package engine

// Direction fan constants
const (
	// DirectionCount is the number of anchor poses in a direction fan
	// (e.g. left-strafe, left, forward, right, right-strafe).
	DirectionCount = 5

	// maxDirectionParam is the largest meaningful direction blend parameter.
	maxDirectionParam = DirectionCount - 1
)

// Inertialization constants (quintic decay, after Bollo 2018)
const (
	// The blend never lasts longer than the time needed to cover x0 at the
	// initial velocity, scaled by this factor.
	velocityTimeFactor = 5.0

	// Initial acceleration: a0 = (-8·v0·t1 - 20·x0) / t1²
	accelVelocityTerm = 8.0
	accelErrorTerm    = 20.0

	// A = -(a0·t1² + 6·v0·t1 + 12·x0) / (2·t1⁵)
	coeffAVel = 6.0
	coeffAErr = 12.0

	// B = (3·a0·t1² + 16·v0·t1 + 30·x0) / (2·t1⁴)
	coeffBAcc = 3.0
	coeffBVel = 16.0
	coeffBErr = 30.0

	// C = -(3·a0·t1² + 12·v0·t1 + 20·x0) / (2·t1³)
	coeffCAcc = 3.0
	coeffCVel = 12.0
	coeffCErr = 20.0

	coeffHalf = 2.0

	// Errors below this magnitude are treated as converged.
	convergedError = 1e-9

	// RemainingEpsilon absorbs accumulated float error when the remaining
	// blend time is decremented by a fixed delta, as a fraction of duration.
	RemainingEpsilon = 1e-9
)
