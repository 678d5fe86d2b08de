// Package motionblend provides the math for blending skeletal animation
// poses: direction-based blend weights, inertial transitions and
// phase-synchronized locomotion timing.
//
// The host engine samples clips, owns the skeleton and schedules work. This
// package only sees flat pose buffers laid out by a rig's [Bindings]:
//
//	[ translations (x y z) | rotations (x y z w) | scales (x y z) | floats ]
//
// Buffers can be float32 or float64; the blenders are generic over [Float].
//
// # Features
//
//   - [DirectionWeights] and [DirectionMixer]: five-way directional blends
//   - [InertialBlender]: velocity-preserving switches between two inputs
//   - [Transition]: boolean-driven crossfade or inertial transitions with
//     easing curves from github.com/tanema/gween/ease
//   - [MotionSync] and [TagSync]: keep motions of different lengths in
//     phase, globally or by synchronization tags such as foot contacts
//   - [Batch]: evaluate many rigs per tick on a bounded worker pool
//   - INI motion set files via [LoadMotionSet]
//
// # Quick Start
//
// Switching between two clips with an inertial blend:
//
//	rig := &motionblend.Bindings{Translations: 20, Rotations: 20}
//	blender := motionblend.NewInertialBlender[float32]()
//	if err := blender.SetRig(rig); err != nil {
//	    log.Fatal(err)
//	}
//
//	idle := motionblend.AllocStream[float32](rig)
//	walk := motionblend.AllocStream[float32](rig)
//	out := motionblend.AllocStream[float32](rig)
//
//	for frame := range frames {
//	    sampleClips(frame, idle, walk)
//	    blender.SetClipSource(frame.Moving)
//	    err := blender.Evaluate(motionblend.Tick[float32]{
//	        DeltaTime: frame.DeltaTime,
//	        Input0:    idle,
//	        Input1:    walk,
//	        Output:    out,
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// Keeping a walk and a run cycle in step by their foot contacts:
//
//	set, err := motionblend.LoadMotionSet("locomotion.ini")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sync, err := motionblend.NewTagSync(set)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sync.Update(speed, dt)
//	for i := range set.Motions {
//	    sampleClip(i, sync.ClipTime(i), sync.Weights()[i])
//	}
//
// # Inertial Blending
//
// On a switch, every channel's offset between the last output and the new
// target is decayed by a quintic polynomial that starts with the offset's
// current velocity and reaches zero position, velocity and acceleration at
// the end of the blend. Translations and scales decay along a 3D direction,
// rotations in axis-angle space and floats as signed scalars. Once the
// blend duration has elapsed the target is passed through unchanged.
//
// # Logging
//
// The package is silent by default. See [SetLogger].
package motionblend
