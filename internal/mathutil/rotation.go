// Package mathutil provides the vector and quaternion helpers used by the
// blend kernels. Rotations are unit quaternions stored as gonum quat.Number
// (Real = w); translation and scale channels are gonum r3 vectors.
package mathutil

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Identity is the identity rotation.
var Identity = quat.Number{Real: 1}

// QuatFromXYZW builds a quaternion from the x, y, z, w slot order used by
// channel buffers.
func QuatFromXYZW(x, y, z, w float64) quat.Number {
	return quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}
}

// XYZW returns the quaternion components in channel buffer slot order.
func XYZW(q quat.Number) (x, y, z, w float64) {
	return q.Imag, q.Jmag, q.Kmag, q.Real
}

// Imag returns the vector part of q.
func Imag(q quat.Number) r3.Vec {
	return r3.Vec{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
}

// Dot returns the 4D dot product of two quaternions.
func Dot(a, b quat.Number) float64 {
	return a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
}

// Normalize returns q scaled to unit length. Degenerate input yields Identity.
func Normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n < normalizeEpsilon || math.IsNaN(n) {
		return Identity
	}
	return quat.Scale(1/n, q)
}

// ShortestArc flips q into the hemisphere with a non-negative scalar part so
// that q and -q, which encode the same rotation, map to the same angle.
func ShortestArc(q quat.Number) quat.Number {
	if q.Real < 0 {
		return quat.Scale(-1, q)
	}
	return q
}

// Difference returns the rotation taking to into from: from * conj(to).
func Difference(from, to quat.Number) quat.Number {
	return ShortestArc(quat.Mul(from, quat.Conj(to)))
}

// AxisAngle returns the rotation axis and angle in [0, π] of a unit
// quaternion on the shortest arc. This is twice the log map of q.
// A rotation smaller than axisEpsilon returns a zero axis and angle.
func AxisAngle(q quat.Number) (axis r3.Vec, angle float64) {
	q = ShortestArc(q)
	v := Imag(q)
	s := r3.Norm(v)
	if s < axisEpsilon {
		return r3.Vec{}, 0
	}
	return r3.Scale(1/s, v), halfAngleFactor * math.Atan2(s, q.Real)
}

// FromAxisAngle is the exponential map: the unit quaternion rotating by
// angle radians about a unit axis.
func FromAxisAngle(axis r3.Vec, angle float64) quat.Number {
	sin, cos := math.Sincos(angle / halfAngleFactor)
	return quat.Number{
		Real: cos,
		Imag: axis.X * sin,
		Jmag: axis.Y * sin,
		Kmag: axis.Z * sin,
	}
}

// TwistAngle returns the signed angle of q's rotation projected onto axis.
func TwistAngle(q quat.Number, axis r3.Vec) float64 {
	q = ShortestArc(q)
	return halfAngleFactor * math.Atan2(r3.Dot(Imag(q), axis), q.Real)
}

// Nlerp blends two rotations on the shortest path and renormalizes.
func Nlerp(a, b quat.Number, w float64) quat.Number {
	if Dot(a, b) < 0 {
		b = quat.Scale(-1, b)
	}
	return Normalize(quat.Add(quat.Scale(1-w, a), quat.Scale(w, b)))
}
