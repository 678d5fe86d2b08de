package motionblend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-motion-blend/internal/testutil"
)

type transitionFixture struct {
	tr   *Transition[float64]
	tick TransitionTick[float64]
}

func newTransitionFixture(t *testing.T, config *TransitionConfig) *transitionFixture {
	t.Helper()
	rig := &Bindings{Translations: 1, Rotations: 1, Floats: 1}
	tr, err := NewTransition[float64](config)
	require.NoError(t, err)
	require.NoError(t, tr.SetRig(rig))

	falseIn := AllocStream[float64](rig)
	trueIn := posedStream[float64](rig, 2) // float channel = 10
	return &transitionFixture{
		tr: tr,
		tick: TransitionTick[float64]{
			DeltaTime:  0.1,
			FalseInput: falseIn,
			TrueInput:  trueIn,
			Output:     AllocStream[float64](rig),
		},
	}
}

func TestTransition_CrossfadeRamp(t *testing.T) {
	f := newTransitionFixture(t, &TransitionConfig{Type: TransitionCrossfade, Duration: 0.5})

	require.NoError(t, f.tr.Evaluate(f.tick))
	assert.Equal(t, f.tick.FalseInput.Data(), f.tick.Output.Data())

	f.tr.SetCondition(true)
	want := []float64{2, 4, 6, 8, 10}
	for i, w := range want {
		require.NoError(t, f.tr.Evaluate(f.tick))
		assert.InDelta(t, w, f.tick.Output.Float(0), 1e-9, "tick %d", i)
	}
	assert.Equal(t, 1.0, f.tr.Weight())
	assert.Equal(t, f.tick.TrueInput.Data(), f.tick.Output.Data())

	// Reversing mid-way ramps back from the current weight.
	f.tr.SetCondition(false)
	require.NoError(t, f.tr.Evaluate(f.tick))
	assert.InDelta(t, 8.0, f.tick.Output.Float(0), 1e-9)
}

func TestTransition_CrossfadeCurve(t *testing.T) {
	f := newTransitionFixture(t, &TransitionConfig{Type: TransitionCrossfade, Duration: 0.5, Curve: "InOutQuad"})

	f.tr.SetCondition(true)
	require.NoError(t, f.tr.Evaluate(f.tick))
	// Linear weight 0.2 shaped to 2·0.2² = 0.08.
	assert.InDelta(t, 0.08, f.tr.Weight(), 1e-6)
	assert.InDelta(t, 0.8, f.tick.Output.Float(0), 1e-5)
	testutil.AssertUnitQuat(t, f.tick.Output.Rotation(0), testutil.DefaultTolerance)

	require.NoError(t, f.tr.SetCurve("linear"))
	require.NoError(t, f.tr.Evaluate(f.tick))
	assert.InDelta(t, 0.4, f.tr.Weight(), 1e-9)

	require.ErrorIs(t, f.tr.SetCurve("zigzag"), ErrInvalidConfig)
}

func TestTransition_Inertial(t *testing.T) {
	f := newTransitionFixture(t, &TransitionConfig{Type: TransitionInertial, Duration: 0.5})
	require.NoError(t, f.tr.Evaluate(f.tick))
	assert.Equal(t, f.tick.FalseInput.Data(), f.tick.Output.Data())

	f.tr.SetCondition(true)
	for i := range 5 {
		require.NoError(t, f.tr.Evaluate(f.tick))
		if i < 4 {
			assert.NotEqual(t, f.tick.TrueInput.Data(), f.tick.Output.Data(), "tick %d", i)
		}
	}
	assert.Equal(t, f.tick.TrueInput.Data(), f.tick.Output.Data())
	assert.Equal(t, 1.0, f.tr.Weight())
}

// Switching to inertial blending mid-crossfade starts from the crossfade
// output instead of snapping to the target.
func TestTransition_SwitchTypeMidBlend(t *testing.T) {
	f := newTransitionFixture(t, &TransitionConfig{Type: TransitionCrossfade, Duration: 0.5})
	require.NoError(t, f.tr.Evaluate(f.tick))

	f.tr.SetCondition(true)
	require.NoError(t, f.tr.Evaluate(f.tick))
	require.NoError(t, f.tr.Evaluate(f.tick))
	mid := f.tick.Output.Float(0)
	require.InDelta(t, 4.0, mid, 1e-9)

	require.NoError(t, f.tr.SetType(TransitionInertial))
	assert.Equal(t, TransitionInertial, f.tr.Type())
	require.NoError(t, f.tr.Evaluate(f.tick))

	got := f.tick.Output.Float(0)
	assert.Greater(t, got, mid)
	assert.Less(t, got, 10.0)
}

func TestTransition_Config(t *testing.T) {
	_, err := NewTransition[float32](nil)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewTransition[float32](&TransitionConfig{Duration: 0})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewTransition[float32](&TransitionConfig{Duration: 1, Curve: "nope"})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewTransition[float32](&TransitionConfig{Type: TransitionType(9), Duration: 1})
	require.ErrorIs(t, err, ErrInvalidConfig)

	tr, err := NewTransition[float32](&TransitionConfig{Duration: DefaultCrossfadeDuration})
	require.NoError(t, err)
	require.ErrorIs(t, tr.SetType(TransitionType(-1)), ErrInvalidConfig)
	require.ErrorIs(t, tr.SetDuration(0), ErrInvalidConfig)
	require.ErrorIs(t, tr.SetRig(nil), ErrInvalidConfig)

	// No rig yet: nothing happens.
	require.NoError(t, tr.Evaluate(TransitionTick[float32]{DeltaTime: 0.1}))
}

func TestTransition_SizeMismatch(t *testing.T) {
	f := newTransitionFixture(t, &TransitionConfig{Duration: 0.5})
	f.tick.Output = AllocStream[float64](&Bindings{Floats: 1})
	require.ErrorIs(t, f.tr.Evaluate(f.tick), ErrStreamSizeMismatch)
}

func TestParseTransitionType(t *testing.T) {
	for _, kind := range []TransitionType{TransitionCrossfade, TransitionInertial} {
		got, err := ParseTransitionType(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}
	_, err := ParseTransitionType("cut")
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, "TransitionType(7)", TransitionType(7).String())
}
