package motionblend

import (
	"fmt"
	"math"
	"sync"

	"github.com/tphakala/go-motion-blend/internal/engine"
	"github.com/tphakala/go-motion-blend/internal/stream"
	"gonum.org/v1/gonum/spatial/r3"
)

// Tick carries the per-frame inputs of an InertialBlender.
type Tick[F Float] struct {
	// DeltaTime is the frame time in seconds. A tick with DeltaTime <= 0
	// still writes Output, but does not advance the blend or record the
	// pose in the history.
	DeltaTime float64

	// Time is the host clock in seconds. It is informational only.
	Time float64

	// Input0 and Input1 are the two candidate target poses. The clip source
	// selects which one is active.
	Input0 Stream[F]
	Input1 Stream[F]

	// Output receives the blended pose.
	Output Stream[F]
}

// InertialBlender switches between two input poses without a visible pop.
// When the active input changes, the last two output poses are extrapolated
// and their offset from the new target decays to zero over the blend
// duration, preserving the velocity the motion had before the switch.
//
// The setters may be called from any goroutine; their effect is picked up
// at the start of the next Evaluate. Evaluate, IsCreated, RemainingTime and
// IsBlending belong to the evaluating goroutine.
type InertialBlender[F Float] struct {
	mu          sync.Mutex
	pendingRig  *Bindings
	rigChanged  bool
	clipSource  bool
	requestFlag bool
	duration    float64

	// Evaluate-owned state.
	rig           *Bindings
	observedFlag  bool
	history       *stream.History[F]
	coeffs        []engine.Coefficients
	dirs          []r3.Vec
	remaining     float64
	blendDuration float64
}

// NewInertialBlender creates a blender with the default duration and no rig.
// Evaluate is a no-op until SetRig is called.
func NewInertialBlender[F Float]() *InertialBlender[F] {
	return &InertialBlender[F]{duration: DefaultInertialDuration}
}

// SetRig attaches the blender to a rig. The pose history is reset to the
// rig's default pose and any blend in progress is cancelled.
func (b *InertialBlender[F]) SetRig(rig *Bindings) error {
	if err := validateBindings(rig); err != nil {
		return err
	}
	b.mu.Lock()
	b.pendingRig = rig
	b.rigChanged = true
	b.mu.Unlock()
	return nil
}

// SetClipSource selects Input1 when true and Input0 when false. Changing
// the source requests a blend; changing it twice before the next Evaluate
// cancels the request.
func (b *InertialBlender[F]) SetClipSource(useInput1 bool) {
	b.mu.Lock()
	if useInput1 != b.clipSource {
		b.clipSource = useInput1
		b.requestFlag = !b.requestFlag
	}
	b.mu.Unlock()
}

// requestBlend asks for a blend toward the current input on the next tick.
func (b *InertialBlender[F]) requestBlend() {
	b.mu.Lock()
	b.requestFlag = !b.requestFlag
	b.mu.Unlock()
}

// SetDuration sets the blend length in seconds for blends triggered from now
// on. A blend already in progress keeps its duration.
func (b *InertialBlender[F]) SetDuration(seconds float64) error {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fmt.Errorf("%w: inertial duration must be positive, got %v", ErrInvalidConfig, seconds)
	}
	b.mu.Lock()
	b.duration = seconds
	b.mu.Unlock()
	return nil
}

// ClipSource reports whether Input1 is the active input.
func (b *InertialBlender[F]) ClipSource() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.clipSource
}

// Duration returns the configured blend length in seconds.
func (b *InertialBlender[F]) Duration() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.duration
}

// IsCreated reports whether a rig has been applied by Evaluate.
func (b *InertialBlender[F]) IsCreated() bool {
	return b.rig != nil
}

// RemainingTime returns the seconds left in the current blend, or 0.
func (b *InertialBlender[F]) RemainingTime() float64 {
	return b.remaining
}

// IsBlending reports whether a blend is in progress.
func (b *InertialBlender[F]) IsBlending() bool {
	return b.remaining > 0
}

type inertialControl struct {
	rig        *Bindings
	rigChanged bool
	useInput1  bool
	flag       bool
	duration   float64
}

func (b *InertialBlender[F]) snapshot() inertialControl {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := inertialControl{
		rig:        b.pendingRig,
		rigChanged: b.rigChanged,
		useInput1:  b.clipSource,
		flag:       b.requestFlag,
		duration:   b.duration,
	}
	b.rigChanged = false
	return c
}

// applyRig allocates the per-rig buffers.
func (b *InertialBlender[F]) applyRig(rig *Bindings) {
	b.rig = rig
	b.history = stream.NewHistory[F](rig, stream.DefaultHistoryDepth)
	b.coeffs = make([]engine.Coefficients, rig.ChannelCount())
	b.dirs = make([]r3.Vec, rig.VectorChannelCount())
	b.remaining = 0
	Logger().Info("inertial blender rig attached",
		"channels", rig.ChannelCount(), "stream_size", rig.StreamSize())
}

// beginTick applies pending control changes and reports whether a blend was
// requested since the previous tick. The request is consumed even when no
// rig is attached.
func (b *InertialBlender[F]) beginTick() (inertialControl, bool) {
	ctl := b.snapshot()
	requested := ctl.flag != b.observedFlag
	b.observedFlag = ctl.flag
	if ctl.rigChanged {
		b.applyRig(ctl.rig)
	}
	return ctl, requested
}

// Evaluate produces one output pose. Without a rig it returns nil and leaves
// Output untouched. A blend requested since the previous tick stays pending
// when Evaluate rejects the tick's buffers.
func (b *InertialBlender[F]) Evaluate(tick Tick[F]) error {
	prevFlag := b.observedFlag
	ctl, requested := b.beginTick()
	if b.rig == nil {
		Logger().Debug("inertial blender has no rig, skipping tick")
		return nil
	}

	input, name := tick.Input0, "input0"
	if ctl.useInput1 {
		input, name = tick.Input1, "input1"
	}
	if err := checkStream(name, input, b.rig); err != nil {
		b.observedFlag = prevFlag
		return err
	}
	if err := checkStream("output", tick.Output, b.rig); err != nil {
		b.observedFlag = prevFlag
		return err
	}

	dt := tick.DeltaTime
	if requested {
		engine.ComputeInertialCoefficients(input, b.history.Pose(0), b.history.Pose(1),
			dt, ctl.duration, b.coeffs, b.dirs)
		b.remaining = ctl.duration
		b.blendDuration = ctl.duration
		Logger().Debug("inertial blend triggered",
			"use_input1", ctl.useInput1, "duration", ctl.duration, "time", tick.Time,
			"active_channels", engine.ActiveChannels(b.coeffs, 0))
	}

	if b.remaining > 0 && dt > 0 {
		b.remaining -= dt
		if b.remaining <= engine.RemainingEpsilon*b.blendDuration {
			b.remaining = 0
		}
	}

	if b.remaining > 0 {
		engine.InertialBlend(input, tick.Output, b.coeffs, b.dirs, b.blendDuration-b.remaining)
	} else {
		tick.Output.CopyFrom(input)
	}

	if dt > 0 {
		b.history.Push(tick.Output)
	}
	return nil
}

// observe records a pose produced elsewhere as this blender's output, so
// that a later switch to inertial blending extrapolates from it. Pending
// blend requests are consumed and any blend in progress ends.
func (b *InertialBlender[F]) observe(out Stream[F], deltaTime float64) {
	b.beginTick()
	if b.rig == nil {
		return
	}
	b.remaining = 0
	if deltaTime > 0 {
		b.history.Push(out)
	}
}
