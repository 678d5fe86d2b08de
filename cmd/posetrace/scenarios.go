package main

import (
	"fmt"
	"log"
	"math"

	motionblend "github.com/tphakala/go-motion-blend"
	"github.com/tphakala/go-motion-blend/internal/mathutil"
	"github.com/tphakala/go-motion-blend/internal/simdops"
	"gonum.org/v1/gonum/spatial/r3"
)

// traceRig is the synthetic skeleton: one channel of every kind, 11 slots.
func traceRig() *motionblend.Bindings {
	return &motionblend.Bindings{Translations: 1, Rotations: 1, Scales: 1, Floats: 1}
}

// defaultMotions is used by sync mode when no -motions file is given.
const defaultMotions = `
tag_type = HumanoidGait

[motion.walk]
duration  = 1.2
threshold = 0
tags      = 0.0:LeftFootContact, 0.25:RightFootPassover, 0.5:RightFootContact, 0.75:LeftFootPassover

[motion.jog]
duration  = 0.9
threshold = 0.5
tags      = 0.1:LeftFootContact, 0.3:RightFootPassover, 0.6:RightFootContact, 0.8:LeftFootPassover

[motion.run]
duration  = 0.7
threshold = 1
tags      = 0.05:LeftFootContact, 0.3:RightFootPassover, 0.55:RightFootContact, 0.8:LeftFootPassover
`

func simulate[F motionblend.Float](opts *options) (*trace, error) {
	switch opts.mode {
	case modeCompare:
		return simulateCompare[F](opts)
	case modeSync:
		return simulateSync(opts)
	case modeDirection:
		return simulateDirection[F](opts)
	default:
		return simulateTransition[F](opts)
	}
}

// idlePose writes a slow sway around the origin.
func idlePose[F motionblend.Float](s motionblend.Stream[F], t float64) {
	sway := swayAmplitude * math.Sin(2*math.Pi*idleSwayHz*t)
	s.SetTranslation(0, r3.Vec{X: sway})
	s.SetRotation(0, mathutil.FromAxisAngle(r3.Vec{Y: 1}, sway))
	s.SetScale(0, r3.Vec{X: 1, Y: 1, Z: 1})
	s.SetFloat(0, 0)
}

// walkPose writes a faster stride offset along X.
func walkPose[F motionblend.Float](s motionblend.Stream[F], t float64) {
	phase := 2 * math.Pi * walkStrideHz * t
	stride := strideAmplitude * math.Sin(phase)
	s.SetTranslation(0, r3.Vec{X: walkOffset + stride, Y: 0.1 * math.Abs(stride), Z: strideAmplitude * math.Cos(phase)})
	s.SetRotation(0, mathutil.FromAxisAngle(r3.Vec{Y: 1}, -stride))
	s.SetScale(0, r3.Vec{X: 1, Y: 1 + 0.1*stride, Z: 1})
	s.SetFloat(0, 1)
}

func newBatch(opts *options) (*motionblend.Batch, error) {
	return motionblend.NewBatch(&motionblend.BatchConfig{EnableParallel: opts.parallel})
}

func transitionConfig(opts *options, kind motionblend.TransitionType) *motionblend.TransitionConfig {
	return &motionblend.TransitionConfig{Type: kind, Duration: opts.duration, Curve: opts.curve}
}

func newTransitions[F motionblend.Float](config *motionblend.TransitionConfig, rig *motionblend.Bindings, count int) ([]*motionblend.Transition[F], error) {
	out := make([]*motionblend.Transition[F], count)
	for i := range out {
		tr, err := motionblend.NewTransition[F](config)
		if err != nil {
			return nil, err
		}
		if err := tr.SetRig(rig); err != nil {
			return nil, err
		}
		out[i] = tr
	}
	return out, nil
}

// simulateTransition records every slot of the first rig plus the
// transition weight. The condition flips to true at -switch seconds.
func simulateTransition[F motionblend.Float](opts *options) (*trace, error) {
	rig := traceRig()
	size := rig.StreamSize()

	tr, err := newTrace(size+1, opts.rate)
	if err != nil {
		return nil, err
	}
	transitions, err := newTransitions[F](transitionConfig(opts, opts.kind), rig, opts.rigs)
	if err != nil {
		return nil, err
	}
	batch, err := newBatch(opts)
	if err != nil {
		return nil, err
	}
	defer batch.Close()

	idle := motionblend.AllocStream[F](rig)
	walk := motionblend.AllocStream[F](rig)
	ticks := make([]motionblend.TransitionTick[F], opts.rigs)
	for i := range ticks {
		ticks[i] = motionblend.TransitionTick[F]{
			FalseInput: idle,
			TrueInput:  walk,
			Output:     motionblend.AllocStream[F](rig),
		}
	}

	dt := opts.deltaTime()
	frame := make([]float64, size+1)
	switched := false
	for n := range opts.ticks() {
		now := float64(n) * dt
		idlePose(idle, now)
		walkPose(walk, now)

		if !switched && now >= opts.switchAt {
			switched = true
			for _, t := range transitions {
				t.SetCondition(true)
			}
			if opts.verbose {
				log.Printf("Condition flipped at tick %d (%.3fs)", n, now)
			}
		}

		for i := range ticks {
			ticks[i].DeltaTime = dt
			ticks[i].Time = now
		}
		if err := motionblend.EvaluateTransitions(batch, transitions, ticks); err != nil {
			return nil, fmt.Errorf("tick %d: %w", n, err)
		}

		for i, v := range ticks[0].Output.Data() {
			frame[i] = float64(v)
		}
		frame[size] = transitions[0].Weight()
		tr.addFrame(frame)
	}

	if err := checkRigsAgree(ticks); err != nil {
		return nil, err
	}
	return tr, nil
}

// checkRigsAgree verifies that every rig produced the same final pose.
func checkRigsAgree[F motionblend.Float](ticks []motionblend.TransitionTick[F]) error {
	ref := ticks[0].Output.Data()
	for i := 1; i < len(ticks); i++ {
		for j, v := range ticks[i].Output.Data() {
			if v != ref[j] {
				return fmt.Errorf("rig %d diverged from rig 0 at slot %d: %v vs %v", i, j, v, ref[j])
			}
		}
	}
	return nil
}

// simulateCompare runs a crossfade and an inertial transition on the same
// inputs and records translation X of both as a stereo trace.
func simulateCompare[F motionblend.Float](opts *options) (*trace, error) {
	rig := traceRig()
	crossfade, err := newTransitions[F](transitionConfig(opts, motionblend.TransitionCrossfade), rig, 1)
	if err != nil {
		return nil, err
	}
	inertial, err := newTransitions[F](transitionConfig(opts, motionblend.TransitionInertial), rig, 1)
	if err != nil {
		return nil, err
	}

	idle := motionblend.AllocStream[F](rig)
	walk := motionblend.AllocStream[F](rig)
	outA := motionblend.AllocStream[F](rig)
	outB := motionblend.AllocStream[F](rig)

	total := opts.ticks()
	left := make([]float64, total)
	right := make([]float64, total)
	dt := opts.deltaTime()
	for n := range total {
		now := float64(n) * dt
		idlePose(idle, now)
		walkPose(walk, now)
		cond := now >= opts.switchAt
		crossfade[0].SetCondition(cond)
		inertial[0].SetCondition(cond)

		tick := motionblend.TransitionTick[F]{DeltaTime: dt, Time: now, FalseInput: idle, TrueInput: walk}
		tick.Output = outA
		if err := crossfade[0].Evaluate(tick); err != nil {
			return nil, fmt.Errorf("crossfade tick %d: %w", n, err)
		}
		tick.Output = outB
		if err := inertial[0].Evaluate(tick); err != nil {
			return nil, fmt.Errorf("inertial tick %d: %w", n, err)
		}
		left[n] = outA.Translation(0).X
		right[n] = outB.Translation(0).X
	}

	tr, err := newTrace(stereoChannels, opts.rate)
	if err != nil {
		return nil, err
	}
	tr.data = make([]float64, stereoChannels*total)
	simdops.Float64Ops().Interleave2(tr.data, left, right)
	return tr, nil
}

func loadMotions(opts *options) (*motionblend.MotionSet, error) {
	if opts.motions != "" {
		return motionblend.LoadMotionSet(opts.motions)
	}
	return motionblend.ParseMotionSet([]byte(defaultMotions))
}

// simulateSync ramps the blend parameter from the first to the last
// threshold and records the normalized ramp, then weight and timer of every
// motion, then the global normalized time.
func simulateSync(opts *options) (*trace, error) {
	set, err := loadMotions(opts)
	if err != nil {
		return nil, err
	}
	tags, err := motionblend.NewTagSync(set)
	if err != nil {
		return nil, err
	}
	global, err := motionblend.NewMotionSync(set)
	if err != nil {
		return nil, err
	}

	count := len(set.Motions)
	tr, err := newTrace(2+2*count, opts.rate)
	if err != nil {
		return nil, err
	}
	if opts.verbose {
		log.Printf("Motions: %d, longest %.3fs", count, set.LongestDuration())
	}

	from := set.Motions[0].Threshold
	to := set.Motions[count-1].Threshold
	total := opts.ticks()
	dt := opts.deltaTime()
	frame := make([]float64, 2+2*count)
	for n := range total {
		progress := float64(n) / float64(max(1, total-1))
		blend := from + (to-from)*progress
		tags.Update(blend, dt)
		global.Update(blend, dt)

		frame[0] = progress
		for i := range count {
			frame[1+2*i] = tags.Weights()[i]
			frame[2+2*i] = tags.Timers()[i]
		}
		frame[1+2*count] = global.NormalizedTime()
		tr.addFrame(frame)

		if opts.verbose && !tags.SyncRatio().Valid {
			log.Printf("Tick %d: master %d has no matching tag pair", n, tags.Master())
		}
	}
	return tr, nil
}

// simulateDirection sweeps the direction parameter across its range with
// five inputs whose translation X equals their index.
func simulateDirection[F motionblend.Float](opts *options) (*trace, error) {
	rig := traceRig()
	mixer, err := motionblend.NewDirectionMixer[F](rig)
	if err != nil {
		return nil, err
	}

	var inputs [motionblend.DirectionCount]motionblend.Stream[F]
	for i := range inputs {
		inputs[i] = motionblend.AllocStream[F](rig)
		inputs[i].SetTranslation(0, r3.Vec{X: float64(i)})
	}
	out := motionblend.AllocStream[F](rig)

	tr, err := newTrace(motionblend.DirectionCount+1, opts.rate)
	if err != nil {
		return nil, err
	}

	total := opts.ticks()
	frame := make([]float64, motionblend.DirectionCount+1)
	for n := range total {
		progress := float64(n) / float64(max(1, total-1))
		param := directionSweepFrom + (directionSweepTo-directionSweepFrom)*progress
		if err := mixer.Evaluate(param, inputs, out); err != nil {
			return nil, fmt.Errorf("tick %d: %w", n, err)
		}
		weights := mixer.Weights()
		copy(frame, weights[:])
		frame[motionblend.DirectionCount] = out.Translation(0).X
		tr.addFrame(frame)
	}
	return tr, nil
}
