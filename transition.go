package motionblend

import (
	"fmt"
	"math"
	"sync"

	"github.com/tphakala/go-motion-blend/internal/curve"
	"github.com/tphakala/go-motion-blend/internal/engine"
)

// TransitionType selects how a Transition moves between its two inputs.
type TransitionType int

const (
	// TransitionCrossfade mixes the two inputs with a weight that ramps
	// over the transition duration, shaped by the configured curve.
	TransitionCrossfade TransitionType = iota

	// TransitionInertial cuts to the new input and decays the offset from
	// the previous motion with an InertialBlender.
	TransitionInertial
)

// String returns the transition type name.
func (t TransitionType) String() string {
	switch t {
	case TransitionCrossfade:
		return "crossfade"
	case TransitionInertial:
		return "inertial"
	default:
		return fmt.Sprintf("TransitionType(%d)", int(t))
	}
}

// ParseTransitionType converts "crossfade" or "inertial" to a TransitionType.
func ParseTransitionType(s string) (TransitionType, error) {
	switch s {
	case "crossfade":
		return TransitionCrossfade, nil
	case "inertial":
		return TransitionInertial, nil
	default:
		return 0, fmt.Errorf("%w: unknown transition type %q", ErrInvalidConfig, s)
	}
}

// TransitionConfig holds transition configuration.
type TransitionConfig struct {
	// Type selects crossfade or inertial blending.
	Type TransitionType

	// Duration is the transition length in seconds.
	Duration float64

	// Curve names the crossfade easing curve ("linear", "inoutquad", ...).
	// Empty selects linear. Ignored by inertial transitions.
	Curve string
}

// Validate checks if the configuration is valid.
func (c *TransitionConfig) Validate() error {
	if c.Type != TransitionCrossfade && c.Type != TransitionInertial {
		return fmt.Errorf("%w: unknown transition type %d", ErrInvalidConfig, int(c.Type))
	}
	if c.Duration <= 0 || math.IsNaN(c.Duration) || math.IsInf(c.Duration, 0) {
		return fmt.Errorf("%w: transition duration must be positive", ErrInvalidConfig)
	}
	if _, err := curve.Lookup(c.Curve); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// TransitionTick carries the per-frame inputs of a Transition.
type TransitionTick[F Float] struct {
	DeltaTime  float64
	Time       float64
	FalseInput Stream[F]
	TrueInput  Stream[F]
	Output     Stream[F]
}

// Transition blends between two poses driven by a boolean condition: the
// output settles on TrueInput while the condition holds and on FalseInput
// otherwise.
//
// Setters may be called from any goroutine and take effect on the next
// Evaluate. Evaluate must not be called concurrently on the same transition.
type Transition[F Float] struct {
	mu        sync.Mutex
	kind      TransitionType
	condition bool
	duration  float64
	shape     curve.Func

	rig         *Bindings
	accumulator *curve.WeightAccumulator
	inertial    *InertialBlender[F]
	weight      float64
}

// NewTransition creates a transition. Evaluate is a no-op until SetRig is called.
func NewTransition[F Float](config *TransitionConfig) (*Transition[F], error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	shape, _ := curve.Lookup(config.Curve)
	t := &Transition[F]{
		kind:        config.Type,
		duration:    config.Duration,
		shape:       shape,
		accumulator: curve.NewWeightAccumulator(config.Duration),
		inertial:    NewInertialBlender[F](),
	}
	if err := t.inertial.SetDuration(config.Duration); err != nil {
		return nil, err
	}
	return t, nil
}

// SetRig attaches the transition to a rig.
func (t *Transition[F]) SetRig(rig *Bindings) error {
	if err := t.inertial.SetRig(rig); err != nil {
		return err
	}
	t.mu.Lock()
	t.rig = rig
	t.mu.Unlock()
	return nil
}

// SetCondition selects TrueInput (true) or FalseInput (false) as the target.
func (t *Transition[F]) SetCondition(cond bool) {
	t.mu.Lock()
	t.condition = cond
	t.mu.Unlock()
	t.inertial.SetClipSource(cond)
}

// SetType switches between crossfade and inertial blending. Switching to
// inertial blending starts an inertial blend from the current output.
func (t *Transition[F]) SetType(kind TransitionType) error {
	if kind != TransitionCrossfade && kind != TransitionInertial {
		return fmt.Errorf("%w: unknown transition type %d", ErrInvalidConfig, int(kind))
	}
	t.mu.Lock()
	changed := t.kind != kind
	t.kind = kind
	t.mu.Unlock()

	if changed && kind == TransitionInertial {
		t.inertial.requestBlend()
	}
	return nil
}

// SetDuration sets the transition length in seconds.
func (t *Transition[F]) SetDuration(seconds float64) error {
	if err := t.inertial.SetDuration(seconds); err != nil {
		return err
	}
	t.mu.Lock()
	t.duration = seconds
	t.mu.Unlock()
	return nil
}

// SetCurve selects the crossfade easing curve by name.
func (t *Transition[F]) SetCurve(name string) error {
	shape, err := curve.Lookup(name)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	t.mu.Lock()
	t.shape = shape
	t.mu.Unlock()
	return nil
}

// Type returns the active transition type.
func (t *Transition[F]) Type() TransitionType {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.kind
}

// Weight returns the crossfade weight of TrueInput applied by the last
// Evaluate, after curve shaping.
func (t *Transition[F]) Weight() float64 {
	return t.weight
}

// Evaluate produces one output pose.
//
// Both blending modes track the condition every tick, so switching type
// mid-transition continues from the current state: the crossfade weight
// keeps ramping while inertial blending is active, and the inertial
// blender records crossfade output as its pose history.
func (t *Transition[F]) Evaluate(tick TransitionTick[F]) error {
	t.mu.Lock()
	kind, cond, duration, shape, rig := t.kind, t.condition, t.duration, t.shape, t.rig
	t.mu.Unlock()

	t.accumulator.SetDuration(duration)
	linear := t.accumulator.Update(cond, tick.DeltaTime)

	if kind == TransitionInertial {
		t.weight = 0
		if cond {
			t.weight = 1
		}
		return t.inertial.Evaluate(Tick[F]{
			DeltaTime: tick.DeltaTime,
			Time:      tick.Time,
			Input0:    tick.FalseInput,
			Input1:    tick.TrueInput,
			Output:    tick.Output,
		})
	}

	if rig == nil {
		Logger().Debug("transition has no rig, skipping tick")
		return nil
	}
	if err := checkStream("false input", tick.FalseInput, rig); err != nil {
		return err
	}
	if err := checkStream("true input", tick.TrueInput, rig); err != nil {
		return err
	}
	if err := checkStream("output", tick.Output, rig); err != nil {
		return err
	}

	switch {
	case linear <= 0:
		t.weight = 0
		tick.Output.CopyFrom(tick.FalseInput)
	case linear >= 1:
		t.weight = 1
		tick.Output.CopyFrom(tick.TrueInput)
	default:
		t.weight = shape(linear)
		engine.Mix(tick.FalseInput, tick.TrueInput, tick.Output, t.weight)
	}

	t.inertial.observe(tick.Output, tick.DeltaTime)
	return nil
}
