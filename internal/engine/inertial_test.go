package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-motion-blend/internal/mathutil"
	"github.com/tphakala/go-motion-blend/internal/stream"
	"github.com/tphakala/go-motion-blend/internal/testutil"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

var zAxis = r3.Vec{Z: 1}

func TestQuinticDecay_Boundaries(t *testing.T) {
	tests := []struct {
		name     string
		x0       float64
		xPrev    float64
		dt       float64
		duration float64
	}{
		{"at rest", 1, 1, 0.1, 1},
		{"moving toward target", 1, 1.1, 0.1, 1},
		{"fast approach shortens blend", 1, 1.5, 0.1, 1},
		{"long blend", 0.3, 0.31, 1.0 / 60, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := QuinticDecay(tt.x0, tt.xPrev, tt.dt, tt.duration)
			require.Positive(t, c.T1)
			assert.LessOrEqual(t, c.T1, tt.duration)

			assert.InDelta(t, tt.x0, c.Eval(0), testutil.DefaultTolerance)
			assert.InDelta(t, 0.0, c.Eval(c.T1), testutil.DefaultTolerance)

			// Position, velocity and acceleration vanish at T1, so the
			// curve approaches zero with a cubic tail.
			const h = 1e-3
			assert.InDelta(t, 0.0, c.Eval(c.T1-h), 1e-6*math.Max(1, tt.x0/(c.T1*c.T1*c.T1)))
		})
	}
}

// The initial slope of the decay equals the finite difference of the two
// frames preceding the trigger.
func TestQuinticDecay_VelocityContinuity(t *testing.T) {
	const dt = 0.1
	c := QuinticDecay(1, 1.1, dt, 1)
	assert.InDelta(t, (1-1.1)/dt, c.E, testutil.DefaultTolerance)

	const h = 1e-6
	slope := (c.Eval(h) - c.Eval(0)) / h
	assert.InDelta(t, c.E, slope, 1e-4)
}

func TestQuinticDecay_ShortensForFastApproach(t *testing.T) {
	// v0 = -5, so x0 is covered in 5·x0/|v0| = 1/5 s.
	c := QuinticDecay(0.2, 0.7, 0.1, 1)
	assert.InDelta(t, 0.2, c.T1, testutil.DefaultTolerance)
}

func TestQuinticDecay_DiscardsVelocityAwayFromTarget(t *testing.T) {
	c := QuinticDecay(1, 0.9, 0.1, 1)
	assert.Zero(t, c.E)
	assert.InDelta(t, 1.0, c.T1, testutil.DefaultTolerance)
}

func TestQuinticDecay_ZeroDeltaTime(t *testing.T) {
	c := QuinticDecay(1, 5, 0, 1)
	assert.Zero(t, c.E)
	assert.InDelta(t, 1.0, c.Eval(0), testutil.DefaultTolerance)
}

func TestQuinticDecay_Converged(t *testing.T) {
	c := QuinticDecay(0, 0.5, 0.1, 1)
	assert.Equal(t, Coefficients{}, c)
	assert.Zero(t, c.Eval(0))
}

func TestSignedDecay_NegativeError(t *testing.T) {
	pos := SignedDecay(1, 1.1, 0.1, 1)
	neg := SignedDecay(-1, -1.1, 0.1, 1)

	for _, tm := range []float64{0, 0.1, 0.5, 0.9} {
		assert.InDelta(t, -pos.Eval(tm), neg.Eval(tm), testutil.DefaultTolerance)
	}
	assert.InDelta(t, 1.0, neg.E, testutil.DefaultTolerance)
}

type inertialFixture struct {
	bindings   *stream.Bindings
	target     stream.Stream[float64]
	last       stream.Stream[float64]
	secondLast stream.Stream[float64]
	out        stream.Stream[float64]
	coeffs     []Coefficients
	dirs       []r3.Vec
}

func newInertialFixture() *inertialFixture {
	b := &stream.Bindings{Translations: 1, Rotations: 1, Scales: 1, Floats: 1}
	f := &inertialFixture{
		bindings:   b,
		target:     stream.Alloc[float64](b),
		last:       stream.Alloc[float64](b),
		secondLast: stream.Alloc[float64](b),
		out:        stream.Alloc[float64](b),
		coeffs:     make([]Coefficients, b.ChannelCount()),
		dirs:       make([]r3.Vec, b.VectorChannelCount()),
	}

	f.last.SetTranslation(0, r3.Vec{X: 1})
	f.last.SetRotation(0, mathutil.FromAxisAngle(zAxis, 0.5))
	f.last.SetScale(0, r3.Vec{X: 2, Y: 1, Z: 1})
	f.last.SetFloat(0, 3)
	f.secondLast.CopyFrom(f.last)
	return f
}

func TestInertialBlend_StartsAtLastPose(t *testing.T) {
	f := newInertialFixture()
	ComputeInertialCoefficients(f.target, f.last, f.secondLast, 0.1, 1, f.coeffs, f.dirs)
	InertialBlend(f.target, f.out, f.coeffs, f.dirs, 0)

	testutil.AssertSlicesInDelta(t, f.last.Data(), f.out.Data(), testutil.PoseTolerance)
}

func TestInertialBlend_ConvergesToTarget(t *testing.T) {
	f := newInertialFixture()
	ComputeInertialCoefficients(f.target, f.last, f.secondLast, 0.1, 1, f.coeffs, f.dirs)
	InertialBlend(f.target, f.out, f.coeffs, f.dirs, 1)

	testutil.AssertSlicesInDelta(t, f.target.Data(), f.out.Data(), testutil.DefaultTolerance)
	assert.Zero(t, ActiveChannels(f.coeffs, 1))
	assert.Equal(t, 4, ActiveChannels(f.coeffs, 0.5))
}

func TestInertialBlend_RotationStaysUnitAndOnAxis(t *testing.T) {
	f := newInertialFixture()
	f.secondLast.SetRotation(0, mathutil.FromAxisAngle(zAxis, 0.6))
	ComputeInertialCoefficients(f.target, f.last, f.secondLast, 0.1, 1, f.coeffs, f.dirs)

	rotChannel := f.bindings.Translations
	assert.InDelta(t, 1.0, f.dirs[rotChannel].Z, testutil.DefaultTolerance)
	assert.InDelta(t, -1.0, f.coeffs[rotChannel].E, testutil.PoseTolerance)

	for tm := 0.0; tm <= 1; tm += 0.05 {
		InertialBlend(f.target, f.out, f.coeffs, f.dirs, tm)
		q := f.out.Rotation(0)
		testutil.AssertUnitQuat(t, q, testutil.PoseTolerance)
		axis, _ := mathutil.AxisAngle(q)
		if r3.Norm(axis) > 0 {
			assert.InDelta(t, 1.0, math.Abs(axis.Z), testutil.PoseTolerance)
		}
	}
}

func TestInertialBlend_TranslationFollowsErrorDirection(t *testing.T) {
	f := newInertialFixture()
	f.target.SetTranslation(0, r3.Vec{Y: 2})
	ComputeInertialCoefficients(f.target, f.last, f.secondLast, 0.1, 1, f.coeffs, f.dirs)
	InertialBlend(f.target, f.out, f.coeffs, f.dirs, 0.5)

	got := f.out.Translation(0)
	offset := r3.Sub(got, f.target.Translation(0))
	dir, _ := mathutil.Direction(r3.Sub(f.last.Translation(0), f.target.Translation(0)))
	assert.InDelta(t, 0.0, r3.Norm(r3.Cross(offset, dir)), testutil.DefaultTolerance)
}

func TestInertialBlend_Float32(t *testing.T) {
	b := &stream.Bindings{Translations: 2, Rotations: 2}
	target := stream.Alloc[float32](b)
	last := stream.Alloc[float32](b)
	out := stream.Alloc[float32](b)
	last.SetTranslation(1, r3.Vec{X: 0.5, Z: -0.5})
	last.SetRotation(1, mathutil.FromAxisAngle(r3.Vec{X: 1}, 1))

	coeffs := make([]Coefficients, b.ChannelCount())
	dirs := make([]r3.Vec, b.VectorChannelCount())
	ComputeInertialCoefficients(target, last, last, 1.0/30, 0.5, coeffs, dirs)

	InertialBlend(target, out, coeffs, dirs, 0)
	testutil.AssertSlicesInDelta(t, last.Data(), out.Data(), testutil.Float32Tolerance)

	InertialBlend(target, out, coeffs, dirs, 0.5)
	testutil.AssertSlicesInDelta(t, target.Data(), out.Data(), testutil.Float32Tolerance)
	testutil.AssertNoNaNOrInf(t, out.Data())
}

func TestInertialBlend_IdentityRotationTarget(t *testing.T) {
	f := newInertialFixture()
	f.target.SetRotation(0, quat.Number{Real: -1})
	ComputeInertialCoefficients(f.target, f.last, f.secondLast, 0.1, 1, f.coeffs, f.dirs)
	InertialBlend(f.target, f.out, f.coeffs, f.dirs, 0)

	testutil.AssertSameRotation(t, f.last.Rotation(0), f.out.Rotation(0), testutil.PoseTolerance)
}

func BenchmarkInertialBlend(b *testing.B) {
	bindings := &stream.Bindings{Translations: 64, Rotations: 64, Scales: 64, Floats: 16}
	target := stream.Alloc[float32](bindings)
	last := stream.Alloc[float32](bindings)
	out := stream.Alloc[float32](bindings)
	for i := range bindings.Translations {
		last.SetTranslation(i, r3.Vec{X: float64(i) * 0.01})
	}
	coeffs := make([]Coefficients, bindings.ChannelCount())
	dirs := make([]r3.Vec, bindings.VectorChannelCount())
	ComputeInertialCoefficients(target, last, last, 1.0/60, 0.3, coeffs, dirs)

	b.ReportAllocs()
	for b.Loop() {
		InertialBlend(target, out, coeffs, dirs, 0.1)
	}
}
