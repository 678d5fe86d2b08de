package motionblend

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-motion-blend/internal/testutil"
	"gonum.org/v1/gonum/spatial/r3"
)

func newTestBlender[F Float](t *testing.T, rig *Bindings) *InertialBlender[F] {
	t.Helper()
	b := NewInertialBlender[F]()
	require.NoError(t, b.SetRig(rig))
	return b
}

// A blend of duration 1.0 at 0.1 s per tick is finished after exactly ten
// ticks, leaving the new input on the output.
func TestInertialBlender_CompletesAfterDuration(t *testing.T) {
	rig := testRig()
	b := newTestBlender[float64](t, rig)
	require.NoError(t, b.SetDuration(1.0))

	in0, in1 := AllocStream[float64](rig), posedStream[float64](rig, 1)
	out := AllocStream[float64](rig)
	tick := Tick[float64]{DeltaTime: 0.1, Input0: in0, Input1: in1, Output: out}

	for range 3 {
		require.NoError(t, b.Evaluate(tick))
	}
	assert.Equal(t, in0.Data(), out.Data())

	b.SetClipSource(true)
	for i := range 10 {
		require.NoError(t, b.Evaluate(tick))
		if i < 9 {
			assert.True(t, b.IsBlending(), "tick %d", i)
			assert.NotEqual(t, in1.Data(), out.Data(), "tick %d", i)
		}
	}

	assert.False(t, b.IsBlending())
	assert.LessOrEqual(t, b.RemainingTime(), 0.0)
	assert.Equal(t, in1.Data(), out.Data())
}

func TestInertialBlender_CompletesAfterDurationFloat32(t *testing.T) {
	rig := testRig()
	b := newTestBlender[float32](t, rig)

	in0, in1 := posedStream[float32](rig, -0.5), posedStream[float32](rig, 1)
	out := AllocStream[float32](rig)
	tick := Tick[float32]{DeltaTime: 0.1, Input0: in0, Input1: in1, Output: out}

	require.NoError(t, b.Evaluate(tick))
	require.NoError(t, b.Evaluate(tick))
	b.SetClipSource(true)
	for range 10 {
		require.NoError(t, b.Evaluate(tick))
		testutil.AssertNoNaNOrInf(t, out.Data())
	}
	assert.Equal(t, in1.Data(), out.Data())
}

// Without a switch and with no blend in progress the active input is
// passed through unchanged every tick.
func TestInertialBlender_PassThroughWithoutSwitch(t *testing.T) {
	rig := testRig()
	b := newTestBlender[float64](t, rig)
	out := AllocStream[float64](rig)

	for k := range 20 {
		in := posedStream[float64](rig, float64(k)*0.1)
		require.NoError(t, b.Evaluate(Tick[float64]{DeltaTime: 1.0 / 60, Input0: in, Output: out}))
		assert.Equal(t, in.Data(), out.Data(), "tick %d", k)
		assert.False(t, b.IsBlending())
	}
}

// The first blended frame continues the motion of the frames before the switch.
func TestInertialBlender_VelocityContinuity(t *testing.T) {
	const dt = 0.01
	rig := &Bindings{Translations: 1}
	b := newTestBlender[float64](t, rig)

	in0, in1, out := AllocStream[float64](rig), AllocStream[float64](rig), AllocStream[float64](rig)
	in1.SetTranslation(0, r3.Vec{X: 5})
	tick := Tick[float64]{DeltaTime: dt, Input0: in0, Input1: in1, Output: out}

	for k := range 51 {
		in0.SetTranslation(0, r3.Vec{X: float64(k) * dt})
		require.NoError(t, b.Evaluate(tick))
	}
	last := out.Translation(0).X
	require.InDelta(t, 0.5, last, testutil.DefaultTolerance)

	b.SetClipSource(true)
	require.NoError(t, b.Evaluate(tick))

	velocity := (out.Translation(0).X - last) / dt
	assert.InDelta(t, 1.0, velocity, 0.01)
}

func TestInertialBlender_RotationsStayNormalized(t *testing.T) {
	rig := testRig()
	b := newTestBlender[float32](t, rig)
	in0, in1 := posedStream[float32](rig, 0.2), posedStream[float32](rig, 3)
	out := AllocStream[float32](rig)
	tick := Tick[float32]{DeltaTime: 1.0 / 30, Input0: in0, Input1: in1, Output: out}

	require.NoError(t, b.Evaluate(tick))
	b.SetClipSource(true)
	for b.Evaluate(tick) == nil && b.IsBlending() {
		for i := range rig.Rotations {
			testutil.AssertUnitQuat(t, out.Rotation(i), testutil.Float32Tolerance)
		}
	}
	assert.Equal(t, in1.Data(), out.Data())
}

func TestInertialBlender_NoRig(t *testing.T) {
	rig := testRig()
	b := NewInertialBlender[float64]()
	in0, in1 := AllocStream[float64](rig), posedStream[float64](rig, 1)
	out := posedStream[float64](rig, 7)
	before := append([]float64(nil), out.Data()...)
	tick := Tick[float64]{DeltaTime: 0.1, Input0: in0, Input1: in1, Output: out}

	// The switch is consumed even though nothing is evaluated.
	b.SetClipSource(true)
	require.NoError(t, b.Evaluate(tick))
	assert.False(t, b.IsCreated())
	assert.Equal(t, before, out.Data())

	require.NoError(t, b.SetRig(rig))
	require.NoError(t, b.Evaluate(tick))
	assert.True(t, b.IsCreated())
	assert.False(t, b.IsBlending())
	assert.Equal(t, in1.Data(), out.Data())
}

func TestInertialBlender_DoubleSwitchCancels(t *testing.T) {
	rig := testRig()
	b := newTestBlender[float64](t, rig)
	in0, in1, out := AllocStream[float64](rig), posedStream[float64](rig, 1), AllocStream[float64](rig)
	tick := Tick[float64]{DeltaTime: 0.1, Input0: in0, Input1: in1, Output: out}
	require.NoError(t, b.Evaluate(tick))

	b.SetClipSource(true)
	b.SetClipSource(false)
	require.NoError(t, b.Evaluate(tick))
	assert.False(t, b.IsBlending())
	assert.Equal(t, in0.Data(), out.Data())

	// Setting the same source again is not a switch.
	b.SetClipSource(false)
	require.NoError(t, b.Evaluate(tick))
	assert.False(t, b.IsBlending())
}

func TestInertialBlender_ZeroDeltaTime(t *testing.T) {
	rig := testRig()
	b := newTestBlender[float64](t, rig)
	in0, in1, out := posedStream[float64](rig, 0.5), posedStream[float64](rig, 1), AllocStream[float64](rig)
	tick := Tick[float64]{DeltaTime: 0.1, Input0: in0, Input1: in1, Output: out}
	require.NoError(t, b.Evaluate(tick))
	require.NoError(t, b.Evaluate(tick))

	b.SetClipSource(true)
	tick.DeltaTime = 0
	for range 3 {
		require.NoError(t, b.Evaluate(tick))
		assert.InDelta(t, 1.0, b.RemainingTime(), testutil.DefaultTolerance)
		testutil.AssertSlicesInDelta(t, in0.Data(), out.Data(), testutil.PoseTolerance)
	}

	// Zero-length ticks still write the output.
	fresh := AllocStream[float64](rig)
	tick.Output = fresh
	require.NoError(t, b.Evaluate(tick))
	testutil.AssertSlicesInDelta(t, in0.Data(), fresh.Data(), testutil.PoseTolerance)
}

func TestInertialBlender_DurationChangeAppliesToNextBlend(t *testing.T) {
	rig := testRig()
	b := newTestBlender[float64](t, rig)
	in0, in1, out := AllocStream[float64](rig), posedStream[float64](rig, 1), AllocStream[float64](rig)
	tick := Tick[float64]{DeltaTime: 0.1, Input0: in0, Input1: in1, Output: out}
	require.NoError(t, b.Evaluate(tick))

	require.NoError(t, b.SetDuration(0.5))
	b.SetClipSource(true)
	require.NoError(t, b.Evaluate(tick))
	assert.InDelta(t, 0.4, b.RemainingTime(), testutil.DefaultTolerance)

	require.NoError(t, b.SetDuration(2))
	for range 4 {
		require.NoError(t, b.Evaluate(tick))
	}
	assert.False(t, b.IsBlending())
	assert.InDelta(t, 2.0, b.Duration(), testutil.DefaultTolerance)
}

func TestInertialBlender_Errors(t *testing.T) {
	b := NewInertialBlender[float64]()
	require.ErrorIs(t, b.SetDuration(0), ErrInvalidConfig)
	require.ErrorIs(t, b.SetDuration(-1), ErrInvalidConfig)
	require.ErrorIs(t, b.SetRig(nil), ErrInvalidConfig)
	require.ErrorIs(t, b.SetRig(&Bindings{Rotations: -1}), ErrInvalidConfig)
	assert.InDelta(t, DefaultInertialDuration, b.Duration(), testutil.DefaultTolerance)

	rig := testRig()
	require.NoError(t, b.SetRig(rig))
	other := &Bindings{Translations: 1}

	err := b.Evaluate(Tick[float64]{
		DeltaTime: 0.1,
		Input0:    AllocStream[float64](rig),
		Output:    AllocStream[float64](other),
	})
	require.ErrorIs(t, err, ErrStreamSizeMismatch)

	err = b.Evaluate(Tick[float64]{DeltaTime: 0.1, Output: AllocStream[float64](rig)})
	require.ErrorIs(t, err, ErrStreamSizeMismatch)
}

// A switch whose first tick is rejected still blends on the next good tick.
func TestInertialBlender_RejectedTickKeepsBlendRequest(t *testing.T) {
	rig := testRig()
	b := newTestBlender[float64](t, rig)
	in0, in1, out := posedStream[float64](rig, 0.5), posedStream[float64](rig, 1), AllocStream[float64](rig)
	tick := Tick[float64]{DeltaTime: 0.1, Input0: in0, Input1: in1, Output: out}
	for range 3 {
		require.NoError(t, b.Evaluate(tick))
	}

	b.SetClipSource(true)
	err := b.Evaluate(Tick[float64]{DeltaTime: 0.1, Input0: in0, Output: out})
	require.ErrorIs(t, err, ErrStreamSizeMismatch)
	assert.False(t, b.IsBlending())

	require.NoError(t, b.Evaluate(tick))
	assert.True(t, b.IsBlending())
	assert.NotEqual(t, in1.Data(), out.Data())
	assert.InDelta(t, 0.9, b.RemainingTime(), testutil.DefaultTolerance)
}

func TestInertialBlender_ConcurrentControl(t *testing.T) {
	rig := testRig()
	b := newTestBlender[float64](t, rig)
	in0, in1, out := AllocStream[float64](rig), posedStream[float64](rig, 1), AllocStream[float64](rig)
	tick := Tick[float64]{DeltaTime: 1.0 / 60, Input0: in0, Input1: in1, Output: out}

	var wg sync.WaitGroup
	for g := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				b.SetClipSource((i+g)%2 == 0)
				_ = b.SetDuration(0.2 + float64(g)*0.1)
			}
		}()
	}
	for range 200 {
		require.NoError(t, b.Evaluate(tick))
	}
	wg.Wait()
	testutil.AssertNoNaNOrInf(t, out.Data())
}

func BenchmarkInertialBlender(b *testing.B) {
	rig := &Bindings{Translations: 64, Rotations: 64, Scales: 64, Floats: 16}
	blender := NewInertialBlender[float32]()
	if err := blender.SetRig(rig); err != nil {
		b.Fatal(err)
	}
	in0, in1 := posedStream[float32](rig, 0), posedStream[float32](rig, 1)
	out := AllocStream[float32](rig)
	tick := Tick[float32]{DeltaTime: 1.0 / 60, Input0: in0, Input1: in1, Output: out}
	source := false

	b.ReportAllocs()
	i := 0
	for b.Loop() {
		if i%30 == 0 {
			source = !source
			blender.SetClipSource(source)
		}
		_ = blender.Evaluate(tick)
		i++
	}
}
