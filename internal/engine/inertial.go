package engine

import (
	"math"

	"github.com/tphakala/go-motion-blend/internal/mathutil"
	"github.com/tphakala/go-motion-blend/internal/simdops"
	"github.com/tphakala/go-motion-blend/internal/stream"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Coefficients describe the decay of one channel's error from its value at
// the blend trigger down to zero:
//
//	x(t) = A·t⁵ + B·t⁴ + C·t³ + D·t² + E·t + F   for t < T1
//	x(t) = 0                                    for t ≥ T1
//
// x(0) is the error at the trigger, the first derivative its velocity and the
// second its acceleration. All three reach zero at T1.
type Coefficients struct {
	A, B, C, D, E, F float64
	T1               float64
}

// Eval returns the remaining error t seconds after the trigger.
func (c Coefficients) Eval(t float64) float64 {
	if t >= c.T1 {
		return 0
	}
	return ((((c.A*t+c.B)*t+c.C)*t+c.D)*t+c.E)*t + c.F
}

// quinticDecay fits the decay curve for an error of magnitude x0 whose value
// one frame earlier was xPrev. Velocity pointing away from the target is
// discarded so the curve never overshoots.
func quinticDecay(x0, xPrev, deltaTime, duration float64) Coefficients {
	if x0 < convergedError || duration <= 0 {
		return Coefficients{}
	}

	v0 := 0.0
	if deltaTime > 0 {
		v0 = min((x0-xPrev)/deltaTime, 0)
	}

	t1 := duration
	if v0 < 0 {
		t1 = min(duration, -velocityTimeFactor*x0/v0)
	}

	t1Sq := t1 * t1
	a0 := max(0, (-accelVelocityTerm*v0*t1-accelErrorTerm*x0)/t1Sq)
	accel := a0 * t1Sq
	vel := v0 * t1

	return Coefficients{
		A:  -(accel + coeffAVel*vel + coeffAErr*x0) / (coeffHalf * t1Sq * t1Sq * t1),
		B:  (coeffBAcc*accel + coeffBVel*vel + coeffBErr*x0) / (coeffHalf * t1Sq * t1Sq),
		C:  -(coeffCAcc*accel + coeffCVel*vel + coeffCErr*x0) / (coeffHalf * t1Sq * t1),
		D:  a0 / coeffHalf,
		E:  v0,
		F:  x0,
		T1: t1,
	}
}

// signedDecay fits a decay for a signed scalar error by folding the sign
// into the coefficients.
func signedDecay(x0, xPrev, deltaTime, duration float64) Coefficients {
	if x0 >= 0 {
		return quinticDecay(x0, xPrev, deltaTime, duration)
	}
	c := quinticDecay(-x0, -xPrev, deltaTime, duration)
	c.A, c.B, c.C, c.D, c.E, c.F = -c.A, -c.B, -c.C, -c.D, -c.E, -c.F
	return c
}

// vectorDecay fits a decay for a 3D error. The error direction is taken from
// the last pose; the previous error is projected onto it.
func vectorDecay(target, last, secondLast r3.Vec, deltaTime, duration float64) (Coefficients, r3.Vec) {
	dir, x0 := mathutil.Direction(r3.Sub(last, target))
	xPrev := r3.Dot(r3.Sub(secondLast, target), dir)
	return quinticDecay(x0, xPrev, deltaTime, duration), dir
}

// rotationDecay fits a decay for a rotation error in log-quaternion space:
// the error is the angle of last relative to target, its direction the axis.
func rotationDecay(target, last, secondLast quat.Number, deltaTime, duration float64) (Coefficients, r3.Vec) {
	axis, x0 := mathutil.AxisAngle(mathutil.Difference(last, target))
	xPrev := mathutil.TwistAngle(mathutil.Difference(secondLast, target), axis)
	return quinticDecay(x0, xPrev, deltaTime, duration), axis
}

// ComputeInertialCoefficients fits one decay curve per channel of target from
// the two most recent output poses. coeffs must hold ChannelCount entries and
// dirs VectorChannelCount entries, both in channel buffer order.
func ComputeInertialCoefficients[F simdops.Float](
	target, last, secondLast stream.Stream[F],
	deltaTime, duration float64,
	coeffs []Coefficients, dirs []r3.Vec,
) {
	b := target.Bindings()
	c := 0

	for i := range b.Translations {
		coeffs[c], dirs[c] = vectorDecay(
			target.Translation(i), last.Translation(i), secondLast.Translation(i),
			deltaTime, duration)
		c++
	}
	for i := range b.Rotations {
		coeffs[c], dirs[c] = rotationDecay(
			target.Rotation(i), last.Rotation(i), secondLast.Rotation(i),
			deltaTime, duration)
		c++
	}
	for i := range b.Scales {
		coeffs[c], dirs[c] = vectorDecay(
			target.Scale(i), last.Scale(i), secondLast.Scale(i),
			deltaTime, duration)
		c++
	}
	for i := range b.Floats {
		goal := target.Float(i)
		coeffs[c] = signedDecay(last.Float(i)-goal, secondLast.Float(i)-goal, deltaTime, duration)
		c++
	}
}

// InertialBlend writes target plus each channel's decayed error, evaluated
// t seconds after the trigger, into out. Rotations are renormalized.
func InertialBlend[F simdops.Float](
	target, out stream.Stream[F],
	coeffs []Coefficients, dirs []r3.Vec,
	t float64,
) {
	b := target.Bindings()
	c := 0

	for i := range b.Translations {
		out.SetTranslation(i, r3.Add(target.Translation(i), r3.Scale(coeffs[c].Eval(t), dirs[c])))
		c++
	}
	for i := range b.Rotations {
		offset := mathutil.FromAxisAngle(dirs[c], coeffs[c].Eval(t))
		out.SetRotation(i, mathutil.Normalize(quat.Mul(offset, target.Rotation(i))))
		c++
	}
	for i := range b.Scales {
		out.SetScale(i, r3.Add(target.Scale(i), r3.Scale(coeffs[c].Eval(t), dirs[c])))
		c++
	}
	for i := range b.Floats {
		out.SetFloat(i, target.Float(i)+coeffs[c].Eval(t))
		c++
	}
}

// ActiveChannels returns how many channels still carry a non-zero error t
// seconds after the trigger.
func ActiveChannels(coeffs []Coefficients, t float64) int {
	n := 0
	for _, c := range coeffs {
		if math.Abs(c.Eval(t)) > convergedError {
			n++
		}
	}
	return n
}
