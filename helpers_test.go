package motionblend

import (
	"math"

	"github.com/tphakala/go-motion-blend/internal/mathutil"
	"gonum.org/v1/gonum/spatial/r3"
)

func testRig() *Bindings {
	return &Bindings{Translations: 2, Rotations: 2, Scales: 1, Floats: 1}
}

// posedStream returns a pose offset from the default pose by amount.
func posedStream[F Float](rig *Bindings, amount float64) Stream[F] {
	s := AllocStream[F](rig)
	for i := range rig.Translations {
		s.SetTranslation(i, r3.Vec{X: amount, Y: 2 * amount, Z: -amount})
	}
	for i := range rig.Rotations {
		s.SetRotation(i, mathutil.FromAxisAngle(r3.Vec{Y: 1}, amount*math.Pi/4))
	}
	for i := range rig.Scales {
		s.SetScale(i, r3.Vec{X: 1 + amount, Y: 1, Z: 1})
	}
	for i := range rig.Floats {
		s.SetFloat(i, 5*amount)
	}
	return s
}
