package mathutil

import "gonum.org/v1/gonum/spatial/r3"

// Direction splits v into a unit direction and its length. Vectors shorter
// than axisEpsilon return a zero direction and zero length.
func Direction(v r3.Vec) (dir r3.Vec, length float64) {
	length = r3.Norm(v)
	if length < axisEpsilon {
		return r3.Vec{}, 0
	}
	return r3.Scale(1/length, v), length
}
